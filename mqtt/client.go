// client.go - MQTT client used to broadcast booking events

package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"hotel-bookings-backend/services"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Client is a connected MQTT publisher.
type Client struct {
	conn    paho.Client
	timeout time.Duration
}

// Connect opens a connection to broker (e.g. "tcp://localhost:1883").
func Connect(broker string) (*Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("hotel-bookings-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	conn := paho.NewClient(opts)
	tok := conn.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect %s: timed out", broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	log.Printf("[MQTT] connected to %s", broker)
	return &Client{conn: conn, timeout: 5 * time.Second}, nil
}

// Publish sends payload with QoS 1. Strings and byte slices go out as they are,
// anything else is JSON-encoded.
func (c *Client) Publish(topic string, payload interface{}) error {
	switch payload.(type) {
	case string, []byte:
	default:
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		payload = raw
	}
	tok := c.conn.Publish(topic, 1, false, payload)
	if !tok.WaitTimeout(c.timeout) {
		return fmt.Errorf("mqtt publish %s: timed out", topic)
	}
	return tok.Error()
}

func (c *Client) Close() {
	c.conn.Disconnect(250)
}

// BookingEvent is the message published for every new booking.
type BookingEvent struct {
	Event   string               `json:"event"`
	HotelID uint                 `json:"hotel_id"`
	Booking services.BookingRead `json:"booking"`
	At      time.Time            `json:"at"`
}

// BookingEvents publishes booking notifications to one topic.
type BookingEvents struct {
	pub   Publisher
	topic string
}

func NewBookingEvents(pub Publisher, topic string) *BookingEvents {
	return &BookingEvents{pub: pub, topic: topic}
}

func (e *BookingEvents) BookingCreated(_ context.Context, ev services.BookingCreated) error {
	return e.pub.Publish(e.topic, BookingEvent{
		Event:   "booking.created",
		HotelID: ev.HotelID,
		Booking: ev.Booking,
		At:      time.Now().UTC(),
	})
}
