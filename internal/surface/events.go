package surface

// Outbound event names.
const (
	EventLoad         = "surface:load"
	EventNavigate     = "surface:navigate"
	EventAcceptsFocus = "surface:accepts-focus"
	EventFocus        = "surface:focus"
	EventCookiesQuery = "surface:cookies-request"
	EventEvalRequest  = "surface:eval-request"
	EventClose        = "surface:close"
)

// Inbound event names.
const (
	EventState         = "surface:state"
	EventCookiesResult = "surface:cookies-response"
	EventEvalResult    = "surface:eval-response"
	EventInputFocused  = "surface:input-focused"
	EventEscape        = "surface:escape"
)

// Navigation phases reported in StatePayload.
const (
	PhaseCommitted = "committed"
	PhaseFinished  = "finished"
)

type LoadPayload struct {
	SurfaceID string `json:"surfaceId"`
	URL       string `json:"url"`
}

type NavigatePayload struct {
	SurfaceID string `json:"surfaceId"`
	Action    string `json:"action"`
}

type AcceptsFocusPayload struct {
	SurfaceID string `json:"surfaceId"`
	Accepts   bool   `json:"accepts"`
}

type CookiesRequestPayload struct {
	SurfaceID string `json:"surfaceId"`
	RequestID string `json:"requestId"`
	Domain    string `json:"domain"`
}

type EvalRequestPayload struct {
	SurfaceID string `json:"surfaceId"`
	RequestID string `json:"requestId"`
	Script    string `json:"script"`
}

// StatePayload reports a navigation lifecycle step.
type StatePayload struct {
	SurfaceID    string `json:"surfaceId"`
	Phase        string `json:"phase"`
	URL          string `json:"url,omitempty"`
	CanGoBack    bool   `json:"canGoBack"`
	CanGoForward bool   `json:"canGoForward"`
}

type CookiesResultPayload struct {
	SurfaceID string   `json:"surfaceId"`
	RequestID string   `json:"requestId"`
	Cookies   []Cookie `json:"cookies"`
	Error     string   `json:"error,omitempty"`
}

type EvalResultPayload struct {
	SurfaceID string `json:"surfaceId"`
	RequestID string `json:"requestId"`
	Result    string `json:"result"`
	Error     string `json:"error,omitempty"`
}

// SignalPayload carries only the surface id.
type SignalPayload struct {
	SurfaceID string `json:"surfaceId"`
}
