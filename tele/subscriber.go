// Package tele receives display requests over MQTT.
package tele

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/charlcd/helpers"
	"github.com/temoto/charlcd/log2"
)

const messageBuffer = 16

type Subscriber struct {
	log    *log2.Log
	config Config
	m      mqtt.Client
	mopt   *mqtt.ClientOptions
	ch     chan Message

	topicConnect string
	topicFilter  string
}

func NewSubscriber(log *log2.Log, c Config) *Subscriber {
	c.SetDefaults()
	self := &Subscriber{
		log:          log,
		config:       c,
		ch:           make(chan Message, messageBuffer),
		topicConnect: c.TopicPrefix + "/c",
		topicFilter:  c.TopicPrefix + "/#",
	}

	mqtt.ERROR = log
	mqtt.CRITICAL = log
	mqtt.WARN = log
	if c.LogDebug {
		mqtt.DEBUG = log
	}

	keepAlive := helpers.IntSecondDefault(c.KeepaliveSec, 60*time.Second)
	pingTimeout := helpers.IntSecondDefault(c.PingTimeoutSec, 30*time.Second)
	networkTimeout := helpers.IntSecondDefault(c.NetworkTimeoutSec, 30*time.Second)
	self.mopt = mqtt.NewClientOptions().
		AddBroker(c.Broker).
		SetBinaryWill(self.topicConnect, []byte{0x00}, 1, true).
		SetClientID(c.ClientId).
		SetCleanSession(false).
		SetDefaultPublishHandler(self.messageHandler).
		SetKeepAlive(keepAlive).
		SetPingTimeout(pingTimeout).
		SetConnectTimeout(networkTimeout).
		SetWriteTimeout(networkTimeout).
		SetOrderMatters(true).
		SetResumeSubs(true).
		SetAutoReconnect(true).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler)
	if c.Password != "" {
		self.mopt.SetUsername(c.ClientId).SetPassword(c.Password)
	}
	return self
}

// Start connects to broker. Subscription is (re)done on every connect.
func (self *Subscriber) Start() error {
	self.log.Infof("tele start %s", self.config.String())
	self.m = mqtt.NewClient(self.mopt)
	token := self.m.Connect()
	if !token.WaitTimeout(self.mopt.ConnectTimeout) {
		return errors.Timeoutf("tele connect broker=%s", self.config.Broker)
	}
	return errors.Annotatef(token.Error(), "tele connect broker=%s", self.config.Broker)
}

// Messages are delivered in arrival order. Messages are dropped when reader is slow.
func (self *Subscriber) Messages() <-chan Message { return self.ch }

func (self *Subscriber) Close() {
	if self == nil || self.m == nil {
		return
	}
	self.log.Infof("tele close")
	if self.m.IsConnected() {
		self.m.Publish(self.topicConnect, 1, true, []byte{0x00}).WaitTimeout(time.Second)
		if token := self.m.Unsubscribe(self.topicFilter); token.WaitTimeout(time.Second) && token.Error() != nil {
			self.log.Errorf("tele unsubscribe err=%v", token.Error())
		}
	}
	self.m.Disconnect(250)
}

func (self *Subscriber) messageHandler(c mqtt.Client, msg mqtt.Message) {
	topic := msg.Topic()
	if topic == self.topicConnect {
		return
	}
	m, err := ParseMessage(self.config.TopicPrefix, topic, msg.Payload())
	if err != nil {
		self.log.Errorf("tele message err=%v", err)
		return
	}
	self.log.Debugf("tele message %s", m.String())
	select {
	case self.ch <- m:
	default:
		self.log.Errorf("tele message dropped, queue full %s", m.String())
	}
}

func (self *Subscriber) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("tele disconnect err=%v", err)
}

func (self *Subscriber) onConnectHandler(c mqtt.Client) {
	self.log.Infof("tele connect")
	if token := c.Subscribe(self.topicFilter, 1, nil); token.Wait() && token.Error() != nil {
		self.log.Errorf("tele subscribe topic=%s err=%v", self.topicFilter, token.Error())
		return
	}
	c.Publish(self.topicConnect, 1, true, []byte{0x01})
}
