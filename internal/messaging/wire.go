package messaging

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"go.uber.org/zap"
)

// requestTimeout bounds one dispatched message on the serving side. Start
// requests include page extraction, so this is generous.
const requestTimeout = 60 * time.Second

// Serve accepts control connections and forwards each decoded message into
// the bus. It returns when the listener is closed.
func Serve(listener net.Listener, bus *Bus, endpoint string, logger *zap.Logger) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		go serveConn(conn, bus, endpoint, logger)
	}
}

func serveConn(conn net.Conn, bus *Bus, endpoint string, logger *zap.Logger) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)
	for {
		var message Message
		if err := decoder.Decode(&message); err != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		response, err := bus.Send(ctx, endpoint, message)
		cancel()
		if err != nil {
			response = Response{Error: err.Error()}
		}

		if err := encoder.Encode(response); err != nil {
			logger.Warn("control reply failed", zap.Error(err))
			return
		}
	}
}

// Call dials the control address and performs one request/response
// round-trip. An absent response is surfaced as an error.
func Call(address string, message Message, timeout time.Duration) (Response, error) {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(timeout))
	if err := json.NewEncoder(conn).Encode(message); err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return Response{}, err
	}
	return response, nil
}
