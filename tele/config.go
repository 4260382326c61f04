package tele

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

type Config struct { //nolint:maligned
	Enabled           bool   `hcl:"enable"`
	Broker            string `hcl:"broker"`
	ClientId          string `hcl:"client_id"`
	Password          string `hcl:"password"` // secret
	TopicPrefix       string `hcl:"topic_prefix"`
	KeepaliveSec      int    `hcl:"keepalive_sec"`
	PingTimeoutSec    int    `hcl:"ping_timeout_sec"`
	NetworkTimeoutSec int    `hcl:"network_timeout_sec"`
	LogDebug          bool   `hcl:"log_debug"`
}

const (
	DefaultBroker      = "tcp://localhost:1883"
	DefaultClientId    = "lcd"
	DefaultTopicPrefix = "lcd"
)

func (c *Config) SetDefaults() {
	if c.Broker == "" {
		c.Broker = DefaultBroker
	}
	if c.ClientId == "" {
		c.ClientId = DefaultClientId
	}
	c.TopicPrefix = strings.Trim(c.TopicPrefix, "/")
	if c.TopicPrefix == "" {
		c.TopicPrefix = DefaultTopicPrefix
	}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if strings.ContainsAny(c.TopicPrefix, "+#") {
		return errors.NotValidf("tele topic_prefix=%s wildcard", c.TopicPrefix)
	}
	if c.KeepaliveSec < 0 || c.PingTimeoutSec < 0 || c.NetworkTimeoutSec < 0 {
		return errors.NotValidf("tele negative timeout")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("enable=%t broker=%s client_id=%s topic_prefix=%s", c.Enabled, c.Broker, c.ClientId, c.TopicPrefix)
}
