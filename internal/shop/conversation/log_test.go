package conversation

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-storefront/server/internal/shop/cart"
	"github.com/Chative-storefront/server/internal/shop/model"
)

func product(id string, price float64) model.Product {
	return model.Product{ID: id, Name: "p" + id, Price: price}
}

func newWiredLog() (*Log, *cart.Store) {
	l := NewLog("hello", 10)
	c := cart.NewStore()
	c.Subscribe(func(items []model.CartItem) { l.SyncDraft(items) })
	return l, c
}

func draftItems(t *testing.T, m *model.Message) []model.OrderItem {
	t.Helper()
	d, ok := m.Draft()
	require.True(t, ok)
	return d.Items
}

func TestNewLogStartsWithGreeting(t *testing.T) {
	l := NewLog("hello", 10)
	s := l.Active()
	assert.Equal(t, DefaultTitle, s.Title)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, model.RoleAgent, s.Messages[0].Role)
	assert.Equal(t, "hello", s.Messages[0].Content)
}

func TestNewSessionIsListedFirstAndActive(t *testing.T) {
	l := NewLog("hello", 10)
	first := l.Active()
	second := l.NewSession()

	assert.Equal(t, second.ID, l.Active().ID)
	assert.Equal(t, NewChatTitle, second.Title)
	require.Len(t, l.Sessions(), 2)
	assert.Equal(t, second.ID, l.Sessions()[0].ID)

	assert.True(t, l.Switch(first.ID))
	assert.Equal(t, first.ID, l.Active().ID)
	assert.False(t, l.Switch("missing"))
	assert.Equal(t, first.ID, l.Active().ID)
}

func TestAppendUserSetsTitleOnce(t *testing.T) {
	l := NewLog("hello", 10)
	s := l.Active()

	l.AppendUser(s.ID, model.NewTextMessage(model.RoleUser, "我要50箱可乐和20盒薯片，尽快送货"))
	assert.Equal(t, "我要50箱可乐和20盒...", s.Title)

	l.AppendUser(s.ID, model.NewTextMessage(model.RoleUser, "短"))
	assert.Equal(t, "我要50箱可乐和20盒...", s.Title)

	other := l.NewSession()
	l.AppendUser(other.ID, model.NewTextMessage(model.RoleUser, "补货"))
	assert.Equal(t, "补货", other.Title)
}

func TestDraftFollowsCartUntilConfirmed(t *testing.T) {
	l, c := newWiredLog()
	s := l.Active()

	c.Add(product("P1", 1), 2)
	c.Add(product("P2", 1), 1)
	draft, created := l.ShowDraft(s.ID, c.Items())
	require.True(t, created)
	assert.Equal(t, []model.OrderItem{{ProductID: "P1", Quantity: 2}, {ProductID: "P2", Quantity: 1}}, draftItems(t, draft))

	c.Add(product("P3", 1), 1)
	want := []model.OrderItem{{ProductID: "P1", Quantity: 2}, {ProductID: "P2", Quantity: 1}, {ProductID: "P3", Quantity: 1}}
	assert.Equal(t, want, draftItems(t, draft))

	_, _, ok := l.Confirm(draft.ID)
	require.True(t, ok)

	c.Add(product("P4", 1), 1)
	c.UpdateQuantity("P1", -2)
	c.Clear()
	assert.Equal(t, want, draftItems(t, draft))
}

func TestSyncOnlyTouchesTailOfActiveSession(t *testing.T) {
	l, c := newWiredLog()
	s := l.Active()

	draft, _ := l.ShowDraft(s.ID, nil)
	l.Append(s.ID, model.NewTextMessage(model.RoleAgent, "after draft"))

	c.Add(product("P1", 1), 3)
	assert.Empty(t, draftItems(t, draft), "draft is no longer the last message")

	other := l.NewSession()
	otherDraft, _ := l.ShowDraft(other.ID, nil)
	l.Switch(s.ID)
	c.Add(product("P2", 1), 1)
	assert.Empty(t, draftItems(t, otherDraft), "inactive session is not synced")

	l.Switch(other.ID)
	c.Add(product("P2", 1), 1)
	assert.Len(t, draftItems(t, otherDraft), 2)
}

func TestSyncNeverCreatesDraft(t *testing.T) {
	l, c := newWiredLog()
	c.Add(product("P1", 1), 1)
	require.Len(t, l.Active().Messages, 1)
}

func TestSyncClearsDraftWhenCartEmpties(t *testing.T) {
	l, c := newWiredLog()
	c.Add(product("P1", 1), 1)
	draft, _ := l.ShowDraft(l.Active().ID, c.Items())

	c.Clear()
	assert.Empty(t, draftItems(t, draft))
}

func TestShowDraftDoesNotDuplicateOpenDraft(t *testing.T) {
	l := NewLog("hello", 10)
	s := l.Active()

	first, created := l.ShowDraft(s.ID, nil)
	require.True(t, created)
	again, created := l.ShowDraft(s.ID, nil)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	l.Confirm(first.ID)
	_, created = l.ShowDraft(s.ID, nil)
	assert.True(t, created, "a confirmed draft does not block a new one")

	_, created = l.ShowDraft("missing", nil)
	assert.False(t, created)
}

func TestManualDraftEditsDoNotTouchCart(t *testing.T) {
	l, c := newWiredLog()
	c.Add(product("P1", 1), 2)
	draft, _ := l.ShowDraft(l.Active().ID, c.Items())

	_, ok := l.UpdateDraftItem(draft.ID, 0, "P9")
	require.True(t, ok)
	_, ok = l.UpdateDraftQuantity(draft.ID, 0, 5)
	require.True(t, ok)

	assert.Equal(t, []model.OrderItem{{ProductID: "P9", Quantity: 7}}, draftItems(t, draft))
	assert.Equal(t, 2, c.QuantityOf("P1"))
	assert.Zero(t, c.QuantityOf("P9"))

	c.Add(product("P1", 1), 1)
	assert.Equal(t, []model.OrderItem{{ProductID: "P1", Quantity: 3}}, draftItems(t, draft), "next cart change overwrites edits")
}

func TestUpdateDraftQuantityClampsAtOne(t *testing.T) {
	l := NewLog("hello", 10)
	s := l.Active()
	draft := model.NewDraftMessage([]model.OrderItem{{ProductID: "1", Quantity: 3}})
	l.Append(s.ID, draft)

	l.UpdateDraftQuantity(draft.ID, 0, -10)
	assert.Equal(t, 1, draftItems(t, draft)[0].Quantity)
}

func TestDraftEditsAreNoOpsWhenInvalid(t *testing.T) {
	l := NewLog("hello", 10)
	s := l.Active()
	draft := model.NewDraftMessage([]model.OrderItem{{ProductID: "1", Quantity: 3}})
	l.Append(s.ID, draft)

	_, ok := l.UpdateDraftItem(draft.ID, 1, "2")
	assert.False(t, ok, "index out of range")
	_, ok = l.UpdateDraftQuantity(draft.ID, -1, 1)
	assert.False(t, ok, "negative index")
	_, ok = l.UpdateDraftItem("missing", 0, "2")
	assert.False(t, ok)
	_, ok = l.UpdateDraftItem(s.Messages[0].ID, 0, "2")
	assert.False(t, ok, "greeting is not a draft")

	l.Confirm(draft.ID)
	_, ok = l.UpdateDraftQuantity(draft.ID, 0, 1)
	assert.False(t, ok, "confirmed drafts are frozen")
	assert.Equal(t, []model.OrderItem{{ProductID: "1", Quantity: 3}}, draftItems(t, draft))
}

func TestConfirmIsOneWay(t *testing.T) {
	l := NewLog("hello", 10)
	s := l.Active()
	draft, _ := l.ShowDraft(s.ID, nil)

	_, _, ok := l.Confirm(draft.ID)
	assert.True(t, ok)
	_, _, ok = l.Confirm(draft.ID)
	assert.False(t, ok)
	assert.False(t, draft.IsOpenDraft())
}

func TestRestore(t *testing.T) {
	l := NewLog("hello", 10)
	stored := []*model.Session{
		model.NewSession("a", nil),
		model.NewSession("b", nil),
	}
	l.Restore(nil)
	assert.Len(t, l.Sessions(), 1)

	l.Restore(stored)
	assert.Len(t, l.Sessions(), 2)
	assert.Equal(t, stored[0].ID, l.Active().ID)
}

func TestTranscript(t *testing.T) {
	l := NewLog("hello", 10)
	s := l.Active()
	l.AppendUser(s.ID, model.NewTextMessage(model.RoleUser, "我要可乐"))
	l.Append(s.ID, model.NewDraftMessage([]model.OrderItem{{ProductID: "1", Quantity: 50}}))

	msgs := Transcript(s, 0)
	require.Len(t, msgs, 3)
	assert.Equal(t, schema.Assistant, msgs[0].Role)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "[draft open] 1×50", msgs[2].Content)
	assert.Equal(t, "我要可乐", LastUserText(msgs))

	assert.Len(t, Transcript(s, 2), 2)
}
