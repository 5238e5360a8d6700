package main

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/njchilds90/gocalc"
)

const natsRequestTimeout = 5 * time.Second

// startResponder answers tool requests published on subject with the same
// handler the HTTP endpoint uses. The caller drains the returned connection.
func startResponder(url, subject string, s *server) (*nats.Conn, error) {
	logger := s.log.WithFields(log.Fields{"url": url, "subject": subject})

	nc, err := nats.Connect(url,
		nats.Name("gocalc"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Warn("Disconnected from NATS")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("server", nc.ConnectedUrl()).Info("Reconnected to NATS")
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = nc.Subscribe(subject, func(m *nats.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), natsRequestTimeout)
		defer cancel()
		if err := m.Respond(s.reply(ctx, m.Data)); err != nil {
			logger.WithError(err).Warn("Failed to respond")
		}
	})
	if err != nil {
		nc.Close()
		return nil, err
	}

	logger.Info("NATS responder ready")
	return nc, nil
}

// reply decodes a tool request and encodes the response. Malformed input
// still gets an error response.
func (s *server) reply(ctx context.Context, data []byte) []byte {
	var req gocalc.ToolRequest
	var resp gocalc.ToolResponse
	if err := json.Unmarshal(data, &req); err != nil {
		resp = gocalc.ToolResponse{Error: "invalid JSON: " + err.Error()}
	} else {
		resp = s.handle(ctx, req)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(gocalc.ToolResponse{Error: err.Error()})
	}
	return out
}
