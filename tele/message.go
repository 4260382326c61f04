package tele

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

type Action uint8

const (
	ActionInvalid Action = iota
	ActionClear
	ActionPrint
	ActionScroll
)

var actionNames = [...]string{"invalid", "clear", "print", "scroll"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Message is remote request to the display owner.
// Topic layout:
//   <prefix>/clear           payload ignored
//   <prefix>/print           payload is UTF-8 text
//   <prefix>/scroll[/ltr|/rtl]  payload is UTF-8 text
type Message struct {
	Action Action
	Text   string
	// Direction is "", "ltr" or "rtl", empty means configured default.
	Direction string
}

func (m Message) String() string {
	if m.Direction != "" {
		return fmt.Sprintf("%s/%s text='%s'", m.Action, m.Direction, m.Text)
	}
	return fmt.Sprintf("%s text='%s'", m.Action, m.Text)
}

func ParseMessage(prefix, topic string, payload []byte) (Message, error) {
	m := Message{}
	if !strings.HasPrefix(topic, prefix+"/") {
		return m, errors.NotValidf("topic=%s prefix=%s", topic, prefix)
	}
	parts := strings.Split(topic[len(prefix)+1:], "/")
	switch parts[0] {
	case "clear":
		m.Action = ActionClear
	case "print":
		m.Action = ActionPrint
	case "scroll":
		m.Action = ActionScroll
		if len(parts) == 2 {
			switch parts[1] {
			case "ltr", "rtl":
				m.Direction = parts[1]
			default:
				return m, errors.NotValidf("topic=%s direction", topic)
			}
		}
	default:
		return m, errors.NotValidf("topic=%s action", topic)
	}
	if len(parts) > 2 || (len(parts) == 2 && m.Action != ActionScroll) {
		return Message{}, errors.NotValidf("topic=%s", topic)
	}
	if m.Action != ActionClear {
		m.Text = string(payload)
	}
	return m, nil
}
