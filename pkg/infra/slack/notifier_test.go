package slack_test

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
	slackinfra "github.com/cogni-dao/cogni-git-admin/pkg/infra/slack"
	"github.com/m-mizutani/gt"
)

func testSignal() model.DecodedSignal {
	return model.DecodedSignal{
		Signal: model.Signal{
			DAO:      "0xdao",
			ChainID:  big.NewInt(11155111),
			RepoURL:  "https://github.com/cogni-dao/test-repo",
			Action:   types.ActionMerge,
			Target:   types.TargetChange,
			Resource: "42",
			Nonce:    big.NewInt(0),
			Executor: "0xexec",
		},
		TxHash:   "0xabc",
		LogIndex: 2,
	}
}

func TestNotifier_Notify(t *testing.T) {
	var (
		gotChannel     string
		gotText        string
		gotAttachments string
		calls          int
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = r.ParseForm()
		gotChannel = r.PostForm.Get("channel")
		gotText = r.PostForm.Get("text")
		gotAttachments = r.PostForm.Get("attachments")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": "C123", "ts": "1.0"})
	}))
	defer ts.Close()

	n, err := slackinfra.NewNotifier("xoxb-test", "C123", slackinfra.WithAPIURL(ts.URL+"/"))
	gt.NoError(t, err)

	t.Run("success result", func(t *testing.T) {
		err := n.Notify(context.Background(), testSignal(), &model.ActionResult{
			Success: true,
			Action:  types.ResultMergeCompleted,
		})
		gt.NoError(t, err)
		gt.Equal(t, gotChannel, "C123")
		gt.String(t, gotText).Contains("merge:change")
		gt.String(t, gotText).Contains("succeeded")
		gt.String(t, gotAttachments).Contains("merge_completed")
		gt.String(t, gotAttachments).Contains("good")
	})

	t.Run("failed result carries error", func(t *testing.T) {
		err := n.Notify(context.Background(), testSignal(), model.FailedResult(types.ResultMergeFailed, "not mergeable"))
		gt.NoError(t, err)
		gt.String(t, gotText).Contains("failed")
		gt.String(t, gotAttachments).Contains("not mergeable")
		gt.String(t, gotAttachments).Contains("danger")
	})

	t.Run("nil result is ignored", func(t *testing.T) {
		before := calls
		gt.NoError(t, n.Notify(context.Background(), testSignal(), nil))
		gt.Equal(t, calls, before)
	})
}

func TestNotifier_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	}))
	defer ts.Close()

	n, err := slackinfra.NewNotifier("xoxb-test", "C404", slackinfra.WithAPIURL(ts.URL+"/"))
	gt.NoError(t, err)

	err = n.Notify(context.Background(), testSignal(), &model.ActionResult{Success: true, Action: types.ResultMergeCompleted})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to post Slack message")
}

func TestNewNotifier_RequiresTokenAndChannel(t *testing.T) {
	_, err := slackinfra.NewNotifier("", "C1")
	gt.Error(t, err)
	_, err = slackinfra.NewNotifier("xoxb", "")
	gt.Error(t, err)
}
