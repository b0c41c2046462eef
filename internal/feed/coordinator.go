package feed

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sakilalakmal/nexus-app/internal/models"
	"github.com/Sakilalakmal/nexus-app/internal/reactions"
)

// TempIDPrefix marks speculative entries awaiting server confirmation.
const TempIDPrefix = "optimistic-"

// IsTempID reports whether an id belongs to a speculative entry.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Coordinator runs the stage, commit-or-rollback pattern for send, edit and
// react against the feed cache. Each mutation cancels the target scope's
// in-flight fetch before staging, so a racing refetch cannot clobber the
// speculative entry. Rollback is targeted at the staged entry rather than a
// whole-store snapshot, so concurrent mutations reconcile independently.
type Coordinator struct {
	cache  *Cache
	api    API
	author models.Author

	// Overridable for tests.
	now       func() time.Time
	newTempID func() string
}

func NewCoordinator(cache *Cache, api API, author models.Author) *Coordinator {
	return &Coordinator{
		cache:     cache,
		api:       api,
		author:    author,
		now:       time.Now,
		newTempID: func() string { return TempIDPrefix + uuid.NewString() },
	}
}

// Send stages a speculative message at the feed tail, submits it, and either
// replaces the speculative entry with the confirmed one (same position) or
// removes it, leaving the feed element-for-element as it was before the
// send. Rollback targets only the temporary id, so concurrent sends get
// independent temporary ids and reconcile independently.
func (co *Coordinator) Send(ctx context.Context, scope Scope, content string, imageURL *string) (models.MessageListItem, error) {
	co.cache.CancelFetch(scope)

	store := co.cache.Store(scope)

	tempID := co.newTempID()
	var threadID *string
	if scope.IsThread() {
		t := scope.ThreadID
		threadID = &t
	}

	speculative := models.MessageListItem{
		ID:           tempID,
		Content:      content,
		ImageURL:     imageURL,
		AuthorID:     co.author.ID,
		AuthorName:   co.author.Name,
		AuthorEmail:  co.author.Email,
		AuthorAvatar: co.author.Avatar,
		ChannelID:    scope.ChannelID,
		ThreadID:     threadID,
		CreatedAt:    co.now(),
		UpdatedAt:    co.now(),
		Reactions:    []reactions.Grouped{},
	}
	store.Append(speculative)

	confirmed, err := co.api.SendMessage(ctx, scope.ChannelID, content, imageURL, threadID)
	if err != nil {
		store.RemoveByID(tempID)
		return models.MessageListItem{}, err
	}

	if !store.ReplaceByID(tempID, confirmed) {
		// A refetch landed in between and dropped the speculative entry;
		// the confirmed message still belongs at the tail.
		store.Append(confirmed)
	}
	return confirmed, nil
}

// Edit submits a content change for an existing confirmed entry. There is no
// speculative stage: the displayed content is untouched until the server
// confirms, so failure needs no rollback.
func (co *Coordinator) Edit(ctx context.Context, scope Scope, messageID, content string) (models.MessageListItem, error) {
	updated, err := co.api.UpdateMessage(ctx, messageID, content)
	if err != nil {
		return models.MessageListItem{}, err
	}

	co.cache.Store(scope).ReplaceByID(messageID, updated)
	return updated, nil
}

// ReactionContext names which feeds a reaction toggle touches. The same
// message can be visible in a channel list and an open thread panel at once;
// both are updated optimistically or neither.
type ReactionContext struct {
	ChannelID string
	// ThreadID is set when a thread panel showing the message is open.
	ThreadID string
}

func (rc ReactionContext) scopes() []Scope {
	scopes := []Scope{ChannelScope(rc.ChannelID)}
	if rc.ThreadID != "" {
		scopes = append(scopes, ThreadScope(rc.ChannelID, rc.ThreadID))
	}
	return scopes
}

// ToggleReaction speculatively recomputes the message's grouped reactions in
// every feed named by the context, then reconciles with the server's groups
// or puts the previous groups back on failure. Rollback touches only the
// toggled message, never the rest of the feed.
func (co *Coordinator) ToggleReaction(ctx context.Context, rctx ReactionContext, messageID, emoji string) ([]reactions.Grouped, error) {
	type touched struct {
		store    *Store
		previous []reactions.Grouped
	}

	var stores []touched
	var speculative []reactions.Grouped
	computed := false

	for _, scope := range rctx.scopes() {
		co.cache.CancelFetch(scope)
		store := co.cache.Store(scope)
		current, ok := store.Get(messageID)
		if !ok {
			continue
		}
		if !computed {
			speculative = reactions.Toggle(current.Reactions, emoji)
			computed = true
		}
		stores = append(stores, touched{store: store, previous: current.Reactions})
		store.SetReactions(messageID, speculative)
	}

	groups, err := co.api.ToggleReaction(ctx, messageID, emoji)
	if err != nil {
		for _, t := range stores {
			t.store.SetReactions(messageID, t.previous)
		}
		return nil, err
	}

	for _, t := range stores {
		t.store.SetReactions(messageID, groups)
	}
	return groups, nil
}
