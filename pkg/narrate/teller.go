// Package narrate runs the whole pipeline: it plans a reply, specifies
// it, realizes it with the configured filters and keeps the session's
// discourse between replies.
package narrate

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kittclouds/telling/internal/store"
	"github.com/kittclouds/telling/pkg/discourse"
	"github.com/kittclouds/telling/pkg/microplan"
	"github.com/kittclouds/telling/pkg/realize"
	"github.com/kittclouds/telling/pkg/reply"
	"github.com/kittclouds/telling/pkg/spin"
	"github.com/kittclouds/telling/pkg/style"
	"github.com/kittclouds/telling/pkg/world"
	"go.uber.org/zap"
)

// Teller narrates replies for one session. Calls are serialized.
type Teller struct {
	mu     sync.Mutex
	logger *zap.Logger

	planner *reply.Planner
	micro   *microplan.Planner
	disc    *discourse.Discourse

	// restarted is set by Restart until the next Save closes the stored givens
	restarted bool

	Registry   *style.Registry
	Typography realize.Typography
	Formatters map[string]realize.Formatter
}

// Config configures a Teller
type Config struct {
	Logger *zap.Logger
	// Strict turns template authoring mistakes into errors
	Strict bool
	// Registry resolves filter names; nil uses the built-in filters
	Registry *style.Registry
}

// New creates a teller with an empty discourse
func New(cfg Config) *Teller {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := cfg.Registry
	if reg == nil {
		reg = style.NewRegistry()
	}
	micro := microplan.NewPlanner(logger.Named("microplan"))
	micro.Strict = cfg.Strict
	return &Teller{
		logger:     logger,
		planner:    reply.NewPlanner(logger.Named("reply")),
		micro:      micro,
		disc:       discourse.New(),
		Registry:   reg,
		Typography: realize.DefaultTypography(),
		Formatters: realize.DefaultFormatters(),
	}
}

// Microplanner exposes the template overrides and rules for customization
func (t *Teller) Microplanner() *microplan.Planner {
	return t.micro
}

// Tell narrates the actions ids of the current turn as seen through c
func (t *Teller) Tell(ids []int, c world.Concept, s spin.Spin) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("tell: %w", err)
	}
	tokenF, sentenceF, paragraphF, err := s.Filters(t.Registry)
	if err != nil {
		return "", fmt.Errorf("tell: %w", err)
	}

	plan, err := t.planner.PlanReply(ids, c, s, t.disc)
	if err != nil {
		return "", fmt.Errorf("tell: %w", err)
	}

	// a reply that fails to specify leaves the discourse as it was
	before := t.snapshot()
	n := t.disc.BeginReply()
	section, err := t.micro.Specify(plan, c, s, t.disc)
	if err != nil {
		t.disc = before
		return "", fmt.Errorf("tell reply %d: %w", n, err)
	}

	ctx := realize.NewContext(c, t.disc)
	ctx.Typography = t.Typography
	ctx.Formatters = t.Formatters
	ctx.TokenFilters = tokenF
	ctx.SentenceFilters = sentenceF
	ctx.ParagraphFilters = paragraphF

	text := section.Realize(ctx)
	t.logger.Debug("told reply",
		zap.Int("reply", n),
		zap.Ints("ids", ids),
		zap.Stringer("order", s.Order),
		zap.Stringer("time", s.Time),
		zap.Int("blocks", len(section.Blocks)),
		zap.Int("givens", len(t.disc.Givens())),
		zap.Uint64("told", t.disc.ToldCount()))
	return text, nil
}

// Restart forgets the givens and the tally
func (t *Teller) Restart() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disc.Restart()
	t.restarted = true
	t.logger.Info("discourse restarted")
}

// Discourse returns a copy of the current discourse state
func (t *Teller) Discourse() *discourse.Discourse {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Teller) snapshot() *discourse.Discourse {
	givens := make(map[world.Tag]int)
	for _, tag := range t.disc.Givens() {
		at, _ := t.disc.IntroducedAt(tag)
		givens[tag] = at
	}
	return discourse.Restore(givens, t.disc.Tally(), t.disc.Reply())
}

// ============================================================================
// Persistence
// ============================================================================

// Save writes the discourse to session id of st. A pending restart closes
// the session's stored givens first.
func (t *Teller) Save(st store.Storer, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, err := st.GetSession(id)
	if err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	now := time.Now().UnixMilli()

	if t.restarted {
		if err := st.CloseGivens(id, now); err != nil {
			return fmt.Errorf("save session %s: close givens: %w", id, err)
		}
	}
	for _, tag := range t.disc.Givens() {
		at, _ := t.disc.IntroducedAt(tag)
		g := &store.Given{SessionID: id, Tag: string(tag), Reply: at, ValidFrom: now}
		if err := st.AddGiven(g); err != nil {
			return fmt.Errorf("save session %s: given %s: %w", id, tag, err)
		}
	}
	if err := st.SetTally(id, t.disc.Tally()); err != nil {
		return fmt.Errorf("save session %s: tally: %w", id, err)
	}

	session.Replies = t.disc.Reply()
	session.UpdatedAt = now
	if err := st.UpdateSession(session); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	t.restarted = false
	t.logger.Debug("saved session", zap.String("session", id), zap.Int("replies", session.Replies))
	return nil
}

// Load replaces the discourse with the one stored for session id
func (t *Teller) Load(st store.Storer, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, err := st.GetSession(id)
	if err != nil {
		return fmt.Errorf("load session %s: %w", id, err)
	}
	rows, err := st.ListGivens(id)
	if err != nil {
		return fmt.Errorf("load session %s: givens: %w", id, err)
	}
	tally, err := st.GetTally(id)
	if err != nil {
		return fmt.Errorf("load session %s: tally: %w", id, err)
	}

	givens := make(map[world.Tag]int, len(rows))
	for _, g := range rows {
		givens[world.Tag(g.Tag)] = g.Reply
	}
	t.disc = discourse.Restore(givens, tally, session.Replies)
	t.restarted = false
	t.logger.Debug("loaded session", zap.String("session", id), zap.Int("givens", len(givens)))
	return nil
}

// LoadOrCreate loads session id, creating it when it does not exist yet
func (t *Teller) LoadOrCreate(st store.Storer, id, story string) error {
	err := t.Load(st, id)
	if !errors.Is(err, store.ErrSessionNotFound) {
		return err
	}
	now := time.Now().UnixMilli()
	if err := st.CreateSession(&store.Session{ID: id, Story: story, CreatedAt: now, UpdatedAt: now}); err != nil {
		return fmt.Errorf("create session %s: %w", id, err)
	}
	t.mu.Lock()
	t.disc = discourse.New()
	t.restarted = false
	t.mu.Unlock()
	return nil
}
