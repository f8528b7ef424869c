package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/yeremiapane/paradise-cafe/utils"
)

const defaultSubjectPrefix = "paradise.collections"

// NATSRelay announces local writes on NATS and feeds peer announcements back into the gateway.
type NATSRelay struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSRelay(url string) (*NATSRelay, error) {
	conn, err := nats.Connect(url, nats.Name("paradise-cafe"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSRelay{conn: conn, prefix: defaultSubjectPrefix}, nil
}

func (r *NATSRelay) subject(collection string) string {
	return r.prefix + "." + collection
}

func (r *NATSRelay) Announce(_ context.Context, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return r.conn.Publish(r.subject(change.Collection), data)
}

func (r *NATSRelay) Watch(ctx context.Context, fn func(Change)) error {
	msgs := make(chan *nats.Msg, 64)
	sub, err := r.conn.ChanSubscribe(r.prefix+".>", msgs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.prefix, err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-msgs:
			var change Change
			if err := json.Unmarshal(msg.Data, &change); err != nil {
				utils.ErrorLogger.WithError(err).WithField("subject", msg.Subject).Warn("dropping malformed change notice")
				continue
			}
			fn(change)
		}
	}
}

func (r *NATSRelay) Close() error {
	r.conn.Close()
	return nil
}
