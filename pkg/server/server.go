package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the msgpack IPC for phrase suggestions
type Server struct {
	service      *Service
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
}

// NewServer creates a new server using stdin/stdout for IPC
func NewServer(service *Service) *Server {
	return NewServerWithIO(service, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing responses to w
func NewServerWithIO(service *Service, r io.Reader, w io.Writer) *Server {
	writer := bufio.NewWriter(w)
	return &Server{
		service: service,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  writer,
		encoder: msgpack.NewEncoder(writer),
	}
}

// Start begins listening for IPC requests.
// It returns nil once the client closes its end of the stream.
func (s *Server) Start() error {
	log.Debug("Starting IPC server.")

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Client disconnected after %d requests", s.requestCount)
				return nil
			}
			log.Errorf("Reading request stream: %v", err)
			return fmt.Errorf("reading request stream: %w", err)
		}
		s.requestCount++

		var request Request
		if err := msgpack.Unmarshal(raw, &request); err != nil {
			log.Errorf("Unmarshaling request: %v", err)
			if err := s.sendError("", "invalid request", 400); err != nil {
				return err
			}
			continue
		}
		if err := s.handleRequest(request); err != nil {
			return err
		}
	}
}

// handleRequest dispatches one decoded request.
// Only write failures are returned, request problems become error responses.
func (s *Server) handleRequest(request Request) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}

	switch request.Action {
	case ActionSuggest, ActionIndex:
		return s.handleSuggest(request)
	case ActionComplete:
		return s.handleComplete(request)
	case ActionReset:
		s.service.ResetIndex()
		return s.send(StatusResponse{ID: request.ID, Status: "ok"})
	case ActionHealth:
		return s.send(StatusResponse{ID: request.ID, Status: "ok"})
	case "":
		return s.sendError(request.ID, "missing 'action' field", 400)
	default:
		return s.sendError(request.ID, fmt.Sprintf("unknown action: %s", request.Action), 400)
	}
}

func (s *Server) handleSuggest(request Request) error {
	suggestions, elapsed, err := s.service.Suggest(request.Tokens, request.StopWords)
	if err != nil {
		log.Errorf("Building suggestions for %s: %v", request.ID, err)
		return s.sendError(request.ID, err.Error(), 500)
	}

	if request.Action == ActionIndex {
		added, total := s.service.Index(suggestions)
		return s.send(IndexResponse{
			ID:     request.ID,
			Status: "ok",
			Added:  added,
			Total:  total,
		})
	}
	if request.Index {
		s.service.Index(suggestions)
	}

	return s.send(SuggestResponse{
		ID:          request.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleComplete(request Request) error {
	if request.Prefix == "" {
		log.Debug("Prefix is empty in request")
		return s.sendError(request.ID, "missing 'p' (prefix) field", 400)
	}

	results, elapsed := s.service.Complete(request.Prefix, request.Limit)
	return s.send(SuggestResponse{
		ID:          request.ID,
		Suggestions: results,
		Count:       len(results),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// send encodes a response and flushes it so the client sees it right away
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("encoding response: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
