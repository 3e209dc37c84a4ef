// Package monitor periodically samples a driver and publishes its status over MQTT
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
	random "github.com/mazen160/go-random"
)

const appID = "tmc2209"

// Sink receives encoded snapshots
type Sink interface {
	Publish(topic string, payload []byte) error
}

// MQTTSink publishes through a paho client
type MQTTSink struct {
	Client paho.Client
	QoS    byte
}

// Publish sends payload and waits for the broker to accept it
func (s *MQTTSink) Publish(topic string, payload []byte) error {
	token := s.Client.Publish(topic, s.QoS, false, payload)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker
func (s *MQTTSink) Close() {
	s.Client.Disconnect(250)
}

// ClientID builds a client id that is stable per machine with a random
// per-session suffix, so two tools on one host do not evict each other
func ClientID() string {
	host := "unknown"
	if id, err := machineid.ProtectedID(appID); err == nil && len(id) >= 12 {
		host = id[:12]
	} else if err != nil {
		glog.V(1).Infof("monitor: machine id unavailable: %v", err)
	}

	suffix, err := random.String(6)
	if err != nil {
		suffix = fmt.Sprintf("%d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%s-%s-%s", appID, host, suffix)
}

// Dial connects to broker and returns a sink
func Dial(broker string) (*MQTTSink, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(broker).
		SetClientID(ClientID()).
		SetAutoReconnect(true).
		SetCleanSession(true)

	client := paho.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", broker, err)
	}
	glog.Infof("monitor: connected to %s", broker)
	return &MQTTSink{Client: client}, nil
}

// Monitor publishes a snapshot every Interval until its context ends
type Monitor struct {
	Sink     Sink
	Topic    string
	Interval time.Duration
	Sample   func(ctx context.Context) (Snapshot, error)
}

// Run publishes immediately and then on every tick. Sampling errors are
// logged and skipped; publishing errors end the run.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		if err := m.once(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Monitor) once(ctx context.Context) error {
	snap, err := m.Sample(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		glog.Warningf("monitor: sample failed: %v", err)
		return nil
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := m.Sink.Publish(m.Topic, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", m.Topic, err)
	}
	if glog.V(2) {
		glog.Infof("monitor: %s %s", m.Topic, payload)
	}
	return nil
}
