package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sbu-community/sentinel/internal/registry"
)

type channelMessage struct {
	ChannelID snowflake.ID
	Message   Message
}

// fakePlatform records every call and fails the ones configured to fail.
type fakePlatform struct {
	mu sync.Mutex

	dmErr      error
	banErr     error
	unbanErr   error
	timeoutErr error
	removeErr  error
	channelErr error

	members map[snowflake.ID]*Member
	users   map[snowflake.ID]*User

	dms            []Message
	bans           []snowflake.ID
	unbans         []snowflake.ID
	timeouts       map[snowflake.ID]time.Time
	removedTimeout []snowflake.ID
	channel        []channelMessage
	platformCalls  int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		members:  make(map[snowflake.ID]*Member),
		users:    make(map[snowflake.ID]*User),
		timeouts: make(map[snowflake.ID]time.Time),
	}
}

func (f *fakePlatform) SendDirectMessage(_ context.Context, _ snowflake.ID, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dmErr != nil {
		return f.dmErr
	}

	f.dms = append(f.dms, msg)

	return nil
}

func (f *fakePlatform) Ban(_ context.Context, _, userID snowflake.ID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.platformCalls++
	if f.banErr != nil {
		return f.banErr
	}

	f.bans = append(f.bans, userID)

	return nil
}

func (f *fakePlatform) Unban(_ context.Context, _, userID snowflake.ID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.platformCalls++
	if f.unbanErr != nil {
		return f.unbanErr
	}

	f.unbans = append(f.unbans, userID)

	return nil
}

func (f *fakePlatform) Timeout(_ context.Context, _, userID snowflake.ID, until time.Time, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.platformCalls++
	if f.timeoutErr != nil {
		return f.timeoutErr
	}

	f.timeouts[userID] = until

	return nil
}

func (f *fakePlatform) RemoveTimeout(_ context.Context, _, userID snowflake.ID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.platformCalls++
	if f.removeErr != nil {
		return f.removeErr
	}

	delete(f.timeouts, userID)
	f.removedTimeout = append(f.removedTimeout, userID)

	return nil
}

func (f *fakePlatform) SendChannelMessage(_ context.Context, channelID snowflake.ID, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.channelErr != nil {
		return f.channelErr
	}

	f.channel = append(f.channel, channelMessage{ChannelID: channelID, Message: msg})

	return nil
}

func (f *fakePlatform) Member(_ context.Context, _, userID snowflake.ID) (*Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	member, ok := f.members[userID]
	if !ok {
		return nil, ErrMemberNotFound
	}

	return member, nil
}

func (f *fakePlatform) User(_ context.Context, userID snowflake.ID) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return nil, ErrMemberNotFound
	}

	return user, nil
}

func (f *fakePlatform) channelMessages(channelID snowflake.ID) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Message

	for _, m := range f.channel {
		if m.ChannelID == channelID {
			out = append(out, m.Message)
		}
	}

	return out
}

// fakeResponder collects responses.
type fakeResponder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *fakeResponder) Respond(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, msg)

	return nil
}

func (r *fakeResponder) all() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Message(nil), r.messages...)
}

// fakeResolver maps names to identifiers.
type fakeResolver map[string]string

func (f fakeResolver) Resolve(_ context.Context, name string) (string, bool) {
	id, ok := f[name]
	return id, ok
}

// memoryRegistry is an in-memory registry counting mutations.
type memoryRegistry struct {
	mu        sync.Mutex
	members   map[string]*registry.BannedMember
	mutations int
	// lateConflict makes the next Insert report a conflict after Exists said false.
	lateConflict bool
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{members: make(map[string]*registry.BannedMember)}
}

func (r *memoryRegistry) Exists(_ context.Context, externalID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.members[externalID]

	return ok, nil
}

func (r *memoryRegistry) Insert(_ context.Context, member *registry.BannedMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[member.ExternalID]; ok || r.lateConflict {
		return registry.ErrConflict
	}

	r.members[member.ExternalID] = member
	r.mutations++

	return nil
}

func (r *memoryRegistry) Get(_ context.Context, externalID string) (*registry.BannedMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	member, ok := r.members[externalID]
	if !ok {
		return nil, registry.ErrNotFound
	}

	return member, nil
}

func (r *memoryRegistry) Delete(_ context.Context, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[externalID]; !ok {
		return registry.ErrNotFound
	}

	delete(r.members, externalID)
	r.mutations++

	return nil
}

func (r *memoryRegistry) Close() error {
	return nil
}
