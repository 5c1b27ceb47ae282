// Package ipc carries control commands from glimpsectl and second launches
// to the running Glimpse instance over a per-user local endpoint (a Unix
// socket, or a named pipe on Windows). Each connection carries one
// newline-delimited JSON request and one response.
package ipc

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Command names.
const (
	CmdShow           = "show"
	CmdHide           = "hide"
	CmdToggle         = "toggle"
	CmdStatus         = "status"
	CmdReloadShortcut = "reload-shortcut"
	CmdReloadHistory  = "reload-history"
)

var knownCommands = []string{CmdShow, CmdHide, CmdToggle, CmdStatus, CmdReloadShortcut, CmdReloadHistory}

// Commands lists the accepted command names.
func Commands() []string { return slices.Clone(knownCommands) }

// Request is one control command.
type Request struct {
	Command string `json:"command"`
}

// Validate rejects unknown commands.
func (r Request) Validate() error {
	if !slices.Contains(knownCommands, r.Command) {
		return fmt.Errorf("unknown command %q", r.Command)
	}
	return nil
}

// Status describes the running instance.
type Status struct {
	PID        int    `json:"pid"`
	Visibility string `json:"visibility"`
	Shortcut   string `json:"shortcut,omitempty"`
	Provider   string `json:"provider,omitempty"`
}

// Response answers a Request.
type Response struct {
	OK     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// Failure builds an error response.
func Failure(err error) Response {
	return Response{OK: false, Error: err.Error()}
}

// Handler executes requests for the server.
type Handler interface {
	Handle(req Request) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Request) Response

func (f HandlerFunc) Handle(req Request) Response { return f(req) }

func encodeRequest(req Request) ([]byte, error) {
	return json.Marshal(req)
}

func decodeRequest(raw []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

func encodeResponse(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

func decodeResponse(raw []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
