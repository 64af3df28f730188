package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/transport"
)

type handlers struct {
	svc transport.Service
}

func httpStatus(c transport.Code) int {
	switch c {
	case transport.CodeOK:
		return http.StatusOK
	case transport.CodeInvalid:
		return http.StatusBadRequest
	case transport.CodeBusy:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// process handles POST /process.
//
// @Summary     Interpret a voice command
// @Description Classifies the utterance, extracts its parameters and returns a confirmation in the
// @Description request's language. Only one command is interpreted at a time; concurrent requests
// @Description are rejected with 409.
// @Tags        commands
// @Accept      json
// @Produce     json
// @Param       request  body      message.Request  true  "Utterance and language code"
// @Success     200  {object}  message.Result  "Resolved command"
// @Failure     400  {object}  message.Result  "Empty input or invalid JSON"
// @Failure     409  {object}  message.Result  "Another command is being processed"
// @Failure     500  {object}  message.Result  "Internal processing error"
// @Router      /process [post]
func (h *handlers) process(w http.ResponseWriter, r *http.Request) {
	var req message.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &message.Result{Status: message.StatusRejected, Error: "invalid json: " + err.Error()})
		return
	}
	if req.Source == "" {
		req.Source = "http"
	}

	res, err := h.svc.Process(r.Context(), &req)
	if err != nil {
		code := transport.CodeOf(err)
		if code == transport.CodeInternal {
			slog.Error("process failed", "request_id", req.ID, "error", err)
		}
		writeJSON(w, httpStatus(code), transport.ErrorResult(req.ID, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// execute handles POST /execute.
//
// @Summary     Actuate the last command
// @Description Sends the last resolved command, or the intent and entities given in the body,
// @Description to the configured actuation targets.
// @Tags        commands
// @Accept      json
// @Produce     json
// @Param       request  body      message.ExecuteRequest  false  "Optional overrides"
// @Success     200  {object}  message.ExecuteResult  "Delivery report"
// @Failure     400  {object}  message.ExecuteResult  "No command to execute"
// @Failure     500  {object}  message.ExecuteResult  "Internal error"
// @Router      /execute [post]
func (h *handlers) execute(w http.ResponseWriter, r *http.Request) {
	var req message.ExecuteRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, &message.ExecuteResult{Status: message.StatusRejected, RoutedTo: []string{}, Error: "invalid json: " + err.Error()})
		return
	}

	res, err := h.svc.Execute(r.Context(), &req)
	if err != nil {
		writeJSON(w, httpStatus(transport.CodeOf(err)), transport.ErrorExecuteResult(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// status handles GET /status.
//
// @Summary  Pipeline status
// @Tags     state
// @Produce  json
// @Success  200  {object}  message.Status
// @Router   /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// languages handles GET /languages.
//
// @Summary  Supported languages
// @Tags     state
// @Produce  json
// @Success  200  {object}  message.LanguageCatalog
// @Router   /languages [get]
func (h *handlers) languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Languages())
}

// context handles GET /context.
//
// @Summary  Last resolved command
// @Tags     state
// @Produce  json
// @Success  200  {object}  message.LastContext
// @Router   /context [get]
func (h *handlers) context(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.LastContext())
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The head unit and dashboard are served from other origins on the car network.
	CheckOrigin: func(*http.Request) bool { return true },
}

// websocket handles GET /ws: every text frame is a message.Request and is
// answered with one message.Result frame.
func (h *handlers) websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	logger := slog.With("remote", r.RemoteAddr)
	logger.Debug("websocket connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read ended", "error", err)
			}
			return
		}

		var (
			req message.Request
			res *message.Result
		)
		if err := json.Unmarshal(data, &req); err != nil {
			res = &message.Result{Status: message.StatusRejected, Error: "invalid json: " + err.Error()}
		} else {
			if req.Source == "" {
				req.Source = "websocket"
			}
			if res, err = h.svc.Process(r.Context(), &req); err != nil {
				res = transport.ErrorResult(req.ID, err)
			}
		}

		if err := conn.WriteJSON(res); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}
