// Package rules evaluates user supplied Starlark checks against the view
// being edited and reports their findings into the editor message log.
package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapview/internal/editor"
	"github.com/leapstack-labs/leapview/internal/editor/event"
	"github.com/leapstack-labs/leapview/internal/editor/message"
	"github.com/leapstack-labs/leapview/pkg/core"
	"go.starlark.net/starlark"
)

// Extension is the file extension of rule scripts.
const Extension = ".star"

// checkFunc is the global every rule script must define.
const checkFunc = "check"

// Rule is one compiled rule script.
type Rule struct {
	Name  string
	Path  string
	check starlark.Callable
}

// Engine holds the compiled rules. It is safe for concurrent use.
type Engine struct {
	rules  []*Rule
	pool   *ThreadPool
	logger *slog.Logger
}

// NewEngine creates an engine with no rules.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		pool:   NewThreadPool(4, logger),
		logger: logger,
	}
}

// LoadDir compiles every rule script in dir, in file name order.
// A missing directory yields an engine without rules.
func LoadDir(dir string, logger *slog.Logger) (*Engine, error) {
	e := NewEngine(logger)
	if dir == "" {
		return e, nil
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return e, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule %s: %w", path, err)
		}
		if err := e.Add(path, src); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Add compiles a rule script. The rule is named after the file without its extension.
func (e *Engine) Add(path string, src []byte) error {
	name := strings.TrimSuffix(filepath.Base(path), Extension)

	thread := e.pool.Get(name)
	defer e.pool.Put(thread)

	globals, err := starlark.ExecFile(thread, path, src, predeclared) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return fmt.Errorf("failed to load rule %s: %w", path, err)
	}
	globals.Freeze()

	fn, ok := globals[checkFunc].(starlark.Callable)
	if !ok {
		return fmt.Errorf("rule %s must define a %s(view) function", path, checkFunc)
	}

	e.rules = append(e.rules, &Rule{Name: name, Path: path, check: fn})
	e.logger.Debug("loaded rule", "rule", name, "path", path)
	return nil
}

// Rules returns the loaded rules.
func (e *Engine) Rules() []*Rule {
	return e.rules
}

// Check runs every rule against view and returns the reported messages.
// A message id reported by more than one rule is kept once.
func (e *Engine) Check(view *core.View) ([]*message.Message, error) {
	if view == nil {
		return nil, nil
	}

	arg := ViewToStarlark(view)
	seen := make(map[string]bool)
	var out []*message.Message

	for _, r := range e.rules {
		msgs, err := e.run(r, arg)
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	return out, nil
}

func (e *Engine) run(r *Rule, arg starlark.Value) ([]*message.Message, error) {
	thread := e.pool.Get(r.Name)
	defer e.pool.Put(thread)

	result, err := starlark.Call(thread, r.check, starlark.Tuple{arg}, nil)
	if err != nil {
		return nil, fmt.Errorf("rule %s failed: %w", r.Name, err)
	}
	if result == starlark.None {
		return nil, nil
	}

	value, err := ToGo(result)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", r.Name, err)
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("rule %s: check must return a list, got %s", r.Name, result.Type())
	}

	msgs := make([]*message.Message, 0, len(items))
	for i, item := range items {
		m, err := toMessage(item)
		if err != nil {
			return nil, fmt.Errorf("rule %s: item %d: %w", r.Name, i, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func toMessage(item any) (*message.Message, error) {
	fields, ok := item.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected dict, got %T", item)
	}

	id, _ := fields["id"].(string)
	if id == "" {
		return nil, errors.New("missing id")
	}
	description, _ := fields["description"].(string)

	typ := message.TypeError
	if raw, ok := fields["type"].(string); ok && raw != "" {
		t, err := message.ParseType(strings.ToUpper(raw))
		if err != nil {
			return nil, err
		}
		typ = t
	}

	return message.New(message.Problem{ID: id, Type: typ, Description: description}), nil
}

// Validator reports rule findings into a single editor session. It remembers
// what it reported so stale findings are withdrawn on the next run.
type Validator struct {
	engine *Engine

	mu       sync.Mutex
	reported []string
}

// Validator returns a validator bound to this engine. Use one per session.
func (e *Engine) Validator() *Validator {
	return &Validator{engine: e}
}

// Apply checks the session's current view, deletes the messages reported by
// the previous run and adds the new ones. Ids the validator did not add
// itself are never deleted.
func (v *Validator) Apply(s *editor.Session) error {
	view, ok := s.GetEditorView()
	if !ok {
		return nil
	}

	msgs, err := v.engine.Check(view)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	current := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		current[m.ID] = true
	}
	for _, id := range v.reported {
		if !current[id] {
			s.DeleteMessage(id, event.PartEditor)
		}
	}

	owned := make(map[string]bool, len(v.reported))
	for _, id := range v.reported {
		owned[id] = true
	}
	v.reported = v.reported[:0]
	for _, m := range msgs {
		// Ids already logged by someone else stay theirs to withdraw.
		if !owned[m.ID] && s.HasMessage(m.ID) {
			continue
		}
		s.AddMessage(m, event.PartEditor)
		v.reported = append(v.reported, m.ID)
	}
	return nil
}
