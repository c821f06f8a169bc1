package notify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shopfront/internal/notify"
)

func TestAppendAssignsIDAndNotifiesObserver(t *testing.T) {
	var seen []notify.Notification
	sink := notify.NewSink(func(n notify.Notification) {
		seen = append(seen, n)
	})

	first := sink.Append("Order ORD-1 placed", notify.TypeSuccess)
	second := sink.Append("payment declined", notify.TypeError)

	require.NotEmpty(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)
	require.Len(t, seen, 2)
	require.Equal(t, notify.TypeError, seen[1].Type)

	all := sink.All()
	require.Len(t, all, 2)
	require.Equal(t, "Order ORD-1 placed", all[0].Text)
}

func TestReplaceRestoresEntries(t *testing.T) {
	sink := notify.NewSink(nil)
	sink.Append("stale", notify.TypeInfo)

	sink.Replace([]notify.Notification{{ID: "n1", Text: "restored", Type: notify.TypeInfo}})

	all := sink.All()
	require.Len(t, all, 1)
	require.Equal(t, "n1", all[0].ID)
}

func TestHandlerList(t *testing.T) {
	sink := notify.NewSink(nil)
	sink.Append("hello", notify.TypeInfo)

	rr := httptest.NewRecorder()
	notify.Handler{Sink: sink}.List(rr, httptest.NewRequest(http.MethodGet, "/notifications", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Notifications, 1)
	require.Equal(t, "hello", body.Notifications[0].Text)
}
