package generator

import (
	"context"
	"sync"
	"time"
)

// Session 持有一个用户的策略槽位。只有成功的 Generate 才会替换结果；
// 勾选状态和编辑标记不做持久化。
type Session struct {
	ID string

	mu      sync.Mutex
	agent   *Agent
	request StrategyRequest
	result  *StrategyResult
	history []Turn
	checks  map[string]bool
	editing bool
}

// NewSession 创建 session，首次成功生成前没有结果。
func NewSession(id string, agent *Agent) *Session {
	return &Session{
		ID:     id,
		agent:  agent,
		checks: make(map[string]bool),
	}
}

// Generate 调用 agent，成功时替换已有结果；失败时保留上一次结果。
func (s *Session) Generate(ctx context.Context, req StrategyRequest) (StrategyResult, error) {
	if err := req.Validate(); err != nil {
		return StrategyResult{}, err
	}
	res, err := s.agent.Generate(ctx, req)
	if err != nil {
		return StrategyResult{}, err
	}
	s.replace(req, res)
	return res, nil
}

func (s *Session) replace(req StrategyRequest, res StrategyResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.request = req
	s.result = &res
	s.editing = false
	// 勾选状态属于被替换的结果，一并清空。
	s.checks = make(map[string]bool)
	s.history = append(s.history, Turn{Request: req, CreatedAt: time.Now()})
}

// Result 返回当前结果的副本。
func (s *Session) Result() (StrategyResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return StrategyResult{}, false
	}
	return *s.result, true
}

// Request 返回产生当前结果的请求。
func (s *Session) Request() StrategyRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request
}

func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.history...)
}

// Toggle 切换勾选状态并返回新值。
func (s *Session) Toggle(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[key] = !s.checks[key]
	return s.checks[key]
}

func (s *Session) Checked(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checks[key]
}

// BeginEdit 只设置编辑标记，策略编辑尚未实现。
func (s *Session) BeginEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = true
}

func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}
