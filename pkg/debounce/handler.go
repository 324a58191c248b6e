package debounce

// Handler consumes the debounced output. On each tick the debouncer makes at
// most one call per batch type: HandleEvents with the non-empty event batch
// first, then HandleErrors with the non-empty error batch. Events and errors
// are never mixed in a single call.
//
// Both methods run synchronously on the debouncer's loop goroutine. A slow
// handler delays the next tick but never blocks the watcher backend.
type Handler interface {
	HandleEvents(events []Event)
	HandleErrors(errs []error)
}

// HandlerFuncs adapts plain functions to the Handler interface. A nil
// function ignores the corresponding batch type.
type HandlerFuncs struct {
	OnEvents func(events []Event)
	OnErrors func(errs []error)
}

// HandleEvents calls OnEvents if set.
func (h HandlerFuncs) HandleEvents(events []Event) {
	if h.OnEvents != nil {
		h.OnEvents(events)
	}
}

// HandleErrors calls OnErrors if set.
func (h HandlerFuncs) HandleErrors(errs []error) {
	if h.OnErrors != nil {
		h.OnErrors(errs)
	}
}

// Batch carries one dispatch for channel-based consumers. Exactly one of
// Events or Errors is non-empty.
type Batch struct {
	Events []Event
	Errors []error
}

// ChannelHandler forwards each batch to a channel. Sends block until the
// consumer receives, which delays the debouncer's next tick accordingly.
type ChannelHandler struct {
	ch chan<- Batch
}

// NewChannelHandler creates a Handler that delivers batches on ch.
func NewChannelHandler(ch chan<- Batch) *ChannelHandler {
	return &ChannelHandler{ch: ch}
}

// HandleEvents sends the event batch.
func (h *ChannelHandler) HandleEvents(events []Event) {
	h.ch <- Batch{Events: events}
}

// HandleErrors sends the error batch.
func (h *ChannelHandler) HandleErrors(errs []error) {
	h.ch <- Batch{Errors: errs}
}
