package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Chative-storefront/server/internal/shop/assistant"
	"github.com/Chative-storefront/server/internal/shop/cart"
	"github.com/Chative-storefront/server/internal/shop/catalog"
	"github.com/Chative-storefront/server/internal/shop/conversation"
	"github.com/Chative-storefront/server/internal/shop/model"
	"github.com/Chative-storefront/server/internal/shop/orders"
	"github.com/Chative-storefront/server/internal/shop/scheduler"
	logx "github.com/Chative-storefront/server/pkg/logger"
)

const defaultHistoryTurns = 20

// Config wires the engine's collaborators. Nil fields get in-memory defaults.
type Config struct {
	Store        model.StoreConfig
	Delays       model.DelayConfig
	TitleRunes   int
	HistoryTurns int

	Catalog    *catalog.Catalog
	Orders     *orders.Book
	Scheduler  scheduler.Scheduler
	Responder  assistant.Responder
	Repository model.SessionRepository
}

// Engine owns the cart, the conversation log and the order book of one UI
// tree. Every exported method and every scheduled callback holds mu, so the
// state behaves as if driven by a single event loop.
type Engine struct {
	mu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	delays       model.DelayConfig
	historyTurns int

	catalog   *catalog.Catalog
	cart      *cart.Store
	log       *conversation.Log
	orders    *orders.Book
	sched     scheduler.Scheduler
	responder assistant.Responder
	repo      model.SessionRepository

	// busy counts in-flight tasks per session for the processing indicator.
	busy map[string]int
	// epoch is bumped by CancelPending; callbacks scheduled under an older
	// epoch are dropped even if the scheduler already released them.
	epoch map[string]uint64
}

// New builds an engine. When a repository is configured, previously stored
// sessions are restored and the newest becomes active.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	greeting, err := assistant.RenderGreeting(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Orders == nil {
		cfg.Orders = orders.NewSeededBook(nil)
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = scheduler.NewTimerScheduler()
	}
	if cfg.Responder == nil {
		cfg.Responder, err = assistant.NewResponder(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("build responder: %w", err)
		}
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = defaultHistoryTurns
	}

	engineCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e := &Engine{
		ctx:          engineCtx,
		cancel:       cancel,
		delays:       cfg.Delays,
		historyTurns: cfg.HistoryTurns,
		catalog:      cfg.Catalog,
		cart:         cart.NewStore(),
		log:          conversation.NewLog(greeting, cfg.TitleRunes),
		orders:       cfg.Orders,
		sched:        cfg.Scheduler,
		responder:    cfg.Responder,
		repo:         cfg.Repository,
		busy:         make(map[string]int),
		epoch:        make(map[string]uint64),
	}
	e.cart.Subscribe(e.onCartChange)

	if e.repo != nil {
		stored, err := e.repo.ListSessions(ctx)
		if err != nil {
			logx.Warn().Err(err).Msg("failed to restore sessions, starting fresh")
		} else if len(stored) > 0 {
			e.log.Restore(stored)
			logx.Info().Int("sessions", len(stored)).Msg("sessions restored")
		}
	}
	e.persist(e.log.Active())

	return e, nil
}

// onCartChange runs synchronously inside a cart mutation, under mu.
func (e *Engine) onCartChange(items []model.CartItem) {
	if s, ok := e.log.SyncDraft(items); ok {
		e.persist(s)
	}
}

// persist saves a session snapshot. Failures are logged and never block the
// in-memory state.
func (e *Engine) persist(s *model.Session) {
	if e.repo == nil || s == nil {
		return
	}
	if err := e.repo.SaveSession(e.ctx, s); err != nil {
		logx.Error().Err(err).Str("session_id", s.ID).Msg("failed to persist session")
	}
}

// schedule registers fn for the session and marks it busy until fn runs.
// It reports false once the scheduler has been stopped.
func (e *Engine) schedule(s *model.Session, delay time.Duration, fn func(s *model.Session)) bool {
	sessionID := s.ID
	epoch := e.epoch[sessionID]
	e.busy[sessionID]++
	s.Processing = true
	id := e.sched.Schedule(sessionID, delay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || e.epoch[sessionID] != epoch {
			return
		}
		e.release(sessionID)
		target, ok := e.log.Session(sessionID)
		if !ok {
			return
		}
		fn(target)
	})
	if id == 0 {
		e.release(sessionID)
		return false
	}
	return true
}

func (e *Engine) release(sessionID string) {
	if e.busy[sessionID] > 0 {
		e.busy[sessionID]--
	}
	if e.busy[sessionID] == 0 {
		delete(e.busy, sessionID)
		if s, ok := e.log.Session(sessionID); ok {
			s.Processing = false
		}
	}
}

// ================ Cart ================

// AddToCart adds quantity units of a catalog product. Unknown ids report false.
func (e *Engine) AddToCart(productID string, quantity int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.catalog.Lookup(productID)
	if !ok {
		return false
	}
	e.cart.Add(p, quantity)
	logx.Debug().Str("product_id", productID).Int("quantity", quantity).Msg("added to cart")
	return true
}

func (e *Engine) RemoveFromCart(productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.Remove(productID)
}

func (e *Engine) UpdateCartQuantity(productID string, delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.UpdateQuantity(productID, delta)
}

func (e *Engine) ClearCart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.Clear()
}

// Checkout turns the cart into a pending order and clears the cart. An empty
// cart reports false.
func (e *Engine) Checkout() (model.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.orders.Record(orders.LinesFromCart(e.cart.Items()))
	if !ok {
		return model.Order{}, false
	}
	e.cart.Clear()
	logx.Info().Str("order_number", o.Number).Float64("total", o.Total()).Msg("cart checked out")
	return o, true
}

// ================ Conversation ================

// Send appends a user text message to the active session and schedules the
// scripted reply. Blank text is ignored.
func (e *Engine) Send(text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	s := e.log.Active()
	e.log.AppendUser(s.ID, model.NewTextMessage(model.RoleUser, text))
	e.persist(s)
	e.scheduleReply(s, text)
	return true
}

// scheduleReply answers text, not whatever the session's newest user
// message is once the delay has passed.
func (e *Engine) scheduleReply(s *model.Session, text string) {
	e.schedule(s, e.delays.Reply, func(s *model.Session) {
		e.deliverReply(s, text)
	})
}

func (e *Engine) deliverReply(s *model.Session, text string) {
	reply, err := e.responder.Reply(e.ctx, assistant.ReplyInput{
		SessionID: s.ID,
		Text:      text,
		History:   conversation.Transcript(s, e.historyTurns),
	})
	var msg *model.Message
	switch {
	case err != nil:
		logx.Error().Err(err).Str("session_id", s.ID).Msg("scripted reply failed")
		msg = model.NewTextMessage(model.RoleAgent, assistant.FallbackReply)
	case reply.IsDraft():
		msg = model.NewDraftMessage(reply.DraftItems)
	default:
		msg = model.NewTextMessage(model.RoleAgent, reply.Text)
	}
	e.log.Append(s.ID, msg)
	e.persist(s)
}

// VoiceInput simulates a recording. After the voice delay the fixed transcript
// is sent as a user audio message. A session already recording reports false.
func (e *Engine) VoiceInput() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.log.Active()
	if s.Recording {
		return false
	}
	s.Recording = true
	ok := e.schedule(s, e.delays.Voice, func(s *model.Session) {
		s.Recording = false
		msg := model.NewAudioMessage(model.RoleUser, assistant.VoiceTranscript, e.delays.Voice)
		e.log.AppendUser(s.ID, msg)
		e.persist(s)
		e.scheduleReply(s, assistant.VoiceTranscript)
	})
	if !ok {
		s.Recording = false
	}
	return ok
}

// CameraAction simulates a photographed order or a scanned barcode.
func (e *Engine) CameraAction(source model.ImageSource) bool {
	if source != model.ImageHandwritten && source != model.ImageScan {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.log.Active()
	return e.schedule(s, e.delays.Camera, func(s *model.Session) {
		p, ok := e.catalog.Lookup(assistant.CameraProductID)
		if !ok {
			logx.Error().Str("product_id", assistant.CameraProductID).Msg("camera product missing from catalog")
			return
		}
		e.cart.Add(p, assistant.CameraQuantity)
		e.log.Append(s.ID, model.NewImageMessage(model.RoleUser, source, assistant.CameraUserText(source)))

		ack, err := assistant.RenderCameraAck(e.ctx, source, p.Name)
		if err != nil {
			logx.Error().Err(err).Str("session_id", s.ID).Msg("camera ack render failed")
			ack = assistant.FallbackReply
		}
		e.log.Append(s.ID, model.NewTextMessage(model.RoleAgent, ack))
		e.persist(s)

		e.schedule(s, e.delays.Draft, func(s *model.Session) {
			if _, created := e.log.ShowDraft(s.ID, e.cart.Items()); created {
				e.persist(s)
			}
		})
	})
}

// ShowDraft appends a draft of the current cart to the active session unless
// it already ends with an open one. It returns the draft message id.
func (e *Engine) ShowDraft() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.log.Active()
	m, created := e.log.ShowDraft(s.ID, e.cart.Items())
	if created {
		e.persist(s)
	}
	if m == nil {
		return "", false
	}
	return m.ID, created
}

// UpdateDraftItem swaps the product of a draft line for another catalog product.
func (e *Engine) UpdateDraftItem(messageID string, index int, productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.catalog.Lookup(productID); !ok {
		return false
	}
	s, ok := e.log.UpdateDraftItem(messageID, index, productID)
	if ok {
		e.persist(s)
	}
	return ok
}

func (e *Engine) UpdateDraftQuantity(messageID string, index, delta int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.log.UpdateDraftQuantity(messageID, index, delta)
	if ok {
		e.persist(s)
	}
	return ok
}

// ConfirmOrder freezes an open draft, records it as a pending order and
// schedules the confirmation message. Empty or already confirmed drafts
// report false.
func (e *Engine) ConfirmOrder(messageID string) (model.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if d, ok := e.openDraft(messageID); !ok || len(d.Items) == 0 {
		return model.Order{}, false
	}
	s, msg, ok := e.log.Confirm(messageID)
	if !ok {
		return model.Order{}, false
	}
	d, _ := msg.Draft()
	items := append([]model.OrderItem(nil), d.Items...)
	o, _ := e.orders.Record(orders.LinesFromDraft(items, e.catalog.Lookup))
	e.persist(s)
	logx.Info().
		Str("session_id", s.ID).
		Str("message_id", messageID).
		Str("order_number", o.Number).
		Msg("order confirmed")

	e.schedule(s, e.delays.Confirm, func(s *model.Session) {
		text, err := assistant.RenderOrderConfirmed(e.ctx, o.Number)
		if err != nil {
			logx.Error().Err(err).Str("order_number", o.Number).Msg("confirmation render failed")
			text = o.Number
		}
		e.log.Append(s.ID, model.NewConfirmedMessage(text, model.ConfirmedPayload{
			OrderNumber: o.Number,
			Items:       items,
			Total:       o.Total(),
		}))
		e.persist(s)
	})
	return o, true
}

func (e *Engine) openDraft(messageID string) (*model.DraftPayload, bool) {
	for _, s := range e.log.Sessions() {
		if m, ok := s.Find(messageID); ok && m.IsOpenDraft() {
			return m.Draft()
		}
	}
	return nil, false
}

// NewChat starts a greeted session and makes it active.
func (e *Engine) NewChat() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.log.NewSession()
	e.persist(s)
	return s.ID
}

// SwitchSession makes id the active session. Unknown ids report false.
func (e *Engine) SwitchSession(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Switch(id)
}

// CancelPending drops the scheduled replies of a session, including callbacks
// that already fired and are waiting for the engine lock. It returns the number
// of tasks the scheduler still held.
func (e *Engine) CancelPending(sessionID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.sched.CancelSession(sessionID)
	e.epoch[sessionID]++
	delete(e.busy, sessionID)
	if s, ok := e.log.Session(sessionID); ok {
		s.Processing = false
		s.Recording = false
	}
	return n
}

// ================ Orders ================

func (e *Engine) UpdateOrderLine(number string, index, delta int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orders.UpdateLineQuantity(number, index, delta)
}

// ================ Lifecycle ================

// Wait blocks until every scheduled task has run.
func (e *Engine) Wait(ctx context.Context) error {
	return e.sched.Wait(ctx)
}

// Close stops the scheduler; callbacks already running become no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancel()
	e.mu.Unlock()
	e.sched.Stop()
	logx.Debug().Msg("engine closed")
}
