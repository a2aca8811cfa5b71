package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wellnoosh/wellnoosh/internal/provider"
)

func TestHolder_SubscribeDeliversCurrentValue(t *testing.T) {
	h := NewHolder()
	s := &provider.Session{AccessToken: "at"}
	h.Set(s)

	var got []*provider.Session
	h.Subscribe(func(v *provider.Session) { got = append(got, v) })

	require.Len(t, got, 1)
	require.Same(t, s, got[0])
}

func TestHolder_NotifiesInApplyOrder(t *testing.T) {
	h := NewHolder()

	var got []string
	h.Subscribe(func(v *provider.Session) {
		if v == nil {
			got = append(got, "nil")
		} else {
			got = append(got, v.AccessToken)
		}
	})

	h.Set(&provider.Session{AccessToken: "a"})
	h.Set(&provider.Session{AccessToken: "b"})
	h.Set(nil)

	require.Equal(t, []string{"nil", "a", "b", "nil"}, got)
}

func TestHolder_Unsubscribe(t *testing.T) {
	h := NewHolder()

	count := 0
	unsub := h.Subscribe(func(*provider.Session) { count++ })
	require.Equal(t, 1, count) // initial delivery

	unsub()
	h.Set(&provider.Session{AccessToken: "a"})
	require.Equal(t, 1, count)
}

func TestHolder_MultipleSubscribersInSubscriptionOrder(t *testing.T) {
	h := NewHolder()

	var order []string
	h.Subscribe(func(*provider.Session) { order = append(order, "first") })
	h.Subscribe(func(*provider.Session) { order = append(order, "second") })

	order = order[:0]
	h.Set(nil)
	require.Equal(t, []string{"first", "second"}, order)
}
