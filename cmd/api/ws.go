package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"pddgen/internal/pdd"
)

const (
	generateWSWriteWait = 10 * time.Second
	generateWSPongWait  = 60 * time.Second
	generateWSPingEvery = (generateWSPongWait * 9) / 10
)

var generateWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type generateWSInbound struct {
	Type               string `json:"type"`
	ProcessText string `json:"processText,omitempty"`
}

type generateWSOutbound struct {
	Type    string                `json:"type"`
	Index   int                   `json:"index,omitempty"`
	Total   int                   `json:"total,omitempty"`
	Section *pdd.Section          `json:"section,omitempty"`
	Failed  bool                  `json:"failed,omitempty"`
	Result  *pdd.GenerationResult `json:"result,omitempty"`
	Code    string                `json:"code,omitempty"`
	Message string                `json:"message,omitempty"`
}

// handleGenerateWS streams one generation run: a "section" frame per
// completed section as workers finish, then a final "result" frame.
func (s *server) handleGenerateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := generateWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(generateWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(generateWSPongWait))
	})

	writeCh := make(chan generateWSOutbound, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(generateWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(generateWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(generateWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	runDone := make(chan struct{}, 1)
	running := false
	for {
		var in generateWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushGenerateWS(writeCh, generateWSOutbound{Type: "pong"})
		case "generate":
			select {
			case <-runDone:
				running = false
			default:
			}
			if running {
				pushGenerateWS(writeCh, generateWSOutbound{
					Type:    "error",
					Code:    "invalid_argument",
					Message: "a generation run is already in progress",
				})
				continue
			}
			running = true
			go func(text string) {
				defer func() { runDone <- struct{}{} }()
				s.runGenerateWS(ctx, writeCh, text)
			}(in.ProcessText)
		default:
			pushGenerateWS(writeCh, generateWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unsupported type: " + in.Type,
			})
		}
	}
}

func (s *server) runGenerateWS(ctx context.Context, writeCh chan generateWSOutbound, text string) {
	onSection := func(index, total int, sec pdd.Section, failed bool) {
		pushGenerateWS(writeCh, generateWSOutbound{
			Type:    "section",
			Index:   index,
			Total:   total,
			Section: &sec,
			Failed:  failed,
		})
	}
	res, err := s.svc.GenerateWithProgress(ctx, text, onSection)
	if err != nil {
		pushGenerateWS(writeCh, generateWSOutbound{
			Type:    "error",
			Code:    "generation_failed",
			Message: err.Error(),
		})
		return
	}
	pushGenerateWS(writeCh, generateWSOutbound{Type: "result", Result: &res})
}

func pushGenerateWS(writeCh chan generateWSOutbound, out generateWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
