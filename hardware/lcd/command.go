package lcd

type Command byte

const (
	CommandClear    Command = 0x01
	CommandHome     Command = 0x02
	CommandEntry    Command = 0x04
	CommandControl  Command = 0x08
	CommandShift    Command = 0x10
	CommandFunction Command = 0x20
	CommandCGRAM    Command = 0x40
	CommandAddress  Command = 0x80 // DDRAM
)

// CommandEntry flags
const (
	EntryShift     Command = 0x01
	EntryIncrement Command = 0x02
)

// CommandShift flags
const (
	ShiftRight   Command = 0x04
	ShiftDisplay Command = 0x08
)

// CommandFunction flags
const (
	FunctionFont5x10 Command = 0x04
	FunctionTwoLines Command = 0x08
	Function8Bit     Command = 0x10
)

// Control is CommandControl flags.
type Control byte

const (
	ControlOn     Control = 0x04
	ControlCursor Control = 0x02 // underscore
	ControlBlink  Control = 0x01
)

const (
	ddramRow1 = 0x40
	// DDRAM holds 40 characters per row.
	MaxColumns = 40
	MaxRows    = 2
)
