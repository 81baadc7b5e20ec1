package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/m-mizutani/gollem"

	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/Business010101/aimodbot/pkg/service/discord"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, _ ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, _ ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{`{"actions": []}`}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

// respondWith returns an LLM client whose session always answers with the
// given text
func respondWith(text string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{text}}, nil
				},
			}, nil
		},
	}
}

// mockGuild is an in-memory Discord guild for executor testing. It records
// every mutation in call order.
type mockGuild struct {
	mu    sync.Mutex
	calls []string

	channels map[string]string // lower name -> ID
	roles    map[string]string
	members  map[string]string // lower username -> user ID

	nextID int

	failOn map[string]error // method name -> forced error
}

var _ discord.Service = &mockGuild{}

func newMockGuild() *mockGuild {
	return &mockGuild{
		channels: make(map[string]string),
		roles:    make(map[string]string),
		members:  make(map[string]string),
		failOn:   make(map[string]error),
	}
}

func (g *mockGuild) record(format string, args ...any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, fmt.Sprintf(format, args...))
}

func (g *mockGuild) allocID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	return fmt.Sprintf("%s-%d", prefix, g.nextID)
}

func (g *mockGuild) fail(method string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failOn[method]
}

func (g *mockGuild) FindChannel(ctx context.Context, guildID, name string) (*discord.Channel, error) {
	if err := g.fail("FindChannel"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	id, ok := g.channels[strings.ToLower(name)]
	g.mu.Unlock()
	if !ok {
		return nil, discord.ErrNotFound
	}
	return &discord.Channel{ID: id, Name: name}, nil
}

func (g *mockGuild) CreateChannel(ctx context.Context, guildID, name string, kind types.ChannelType, parentID string) (*discord.Channel, error) {
	if err := g.fail("CreateChannel"); err != nil {
		return nil, err
	}
	id := g.allocID("ch")
	g.mu.Lock()
	g.channels[strings.ToLower(name)] = id
	g.mu.Unlock()
	g.record("CreateChannel(%s,%s,%s)", name, kind, parentID)
	return &discord.Channel{ID: id, Name: name, ParentID: parentID}, nil
}

func (g *mockGuild) CreateCategory(ctx context.Context, guildID, name string) (*discord.Channel, error) {
	if err := g.fail("CreateCategory"); err != nil {
		return nil, err
	}
	id := g.allocID("cat")
	g.mu.Lock()
	g.channels[strings.ToLower(name)] = id
	g.mu.Unlock()
	g.record("CreateCategory(%s)", name)
	return &discord.Channel{ID: id, Name: name}, nil
}

func (g *mockGuild) DeleteChannel(ctx context.Context, channelID string) error {
	if err := g.fail("DeleteChannel"); err != nil {
		return err
	}
	g.record("DeleteChannel(%s)", channelID)
	return nil
}

func (g *mockGuild) FindRole(ctx context.Context, guildID, name string) (*discord.Role, error) {
	if err := g.fail("FindRole"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	id, ok := g.roles[strings.ToLower(name)]
	g.mu.Unlock()
	if !ok {
		return nil, discord.ErrNotFound
	}
	return &discord.Role{ID: id, Name: name}, nil
}

func (g *mockGuild) CreateRole(ctx context.Context, guildID, name string, color int) (*discord.Role, error) {
	if err := g.fail("CreateRole"); err != nil {
		return nil, err
	}
	id := g.allocID("role")
	g.mu.Lock()
	g.roles[strings.ToLower(name)] = id
	g.mu.Unlock()
	g.record("CreateRole(%s,%d)", name, color)
	return &discord.Role{ID: id, Name: name, Color: color}, nil
}

func (g *mockGuild) DeleteRole(ctx context.Context, guildID, roleID string) error {
	if err := g.fail("DeleteRole"); err != nil {
		return err
	}
	g.record("DeleteRole(%s)", roleID)
	return nil
}

func (g *mockGuild) FindMember(ctx context.Context, guildID, name string) (*discord.Member, error) {
	if err := g.fail("FindMember"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	id, ok := g.members[strings.ToLower(name)]
	g.mu.Unlock()
	if !ok {
		return nil, discord.ErrNotFound
	}
	return &discord.Member{UserID: id, Username: name}, nil
}

func (g *mockGuild) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := g.fail("AddMemberRole"); err != nil {
		return err
	}
	g.record("AddMemberRole(%s,%s)", userID, roleID)
	return nil
}

func (g *mockGuild) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := g.fail("RemoveMemberRole"); err != nil {
		return err
	}
	g.record("RemoveMemberRole(%s,%s)", userID, roleID)
	return nil
}

func (g *mockGuild) SetChannelPermissions(ctx context.Context, channelID, targetID string, kind types.TargetType, allow, deny int64) error {
	if err := g.fail("SetChannelPermissions"); err != nil {
		return err
	}
	g.record("SetChannelPermissions(%s,%s,%s,%d,%d)", channelID, targetID, kind, allow, deny)
	return nil
}

func (g *mockGuild) LockChannel(ctx context.Context, guildID, channelID string) error {
	if err := g.fail("LockChannel"); err != nil {
		return err
	}
	g.record("LockChannel(%s)", channelID)
	return nil
}

func (g *mockGuild) UnlockChannel(ctx context.Context, guildID, channelID string) error {
	if err := g.fail("UnlockChannel"); err != nil {
		return err
	}
	g.record("UnlockChannel(%s)", channelID)
	return nil
}
