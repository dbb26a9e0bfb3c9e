package webapi

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemanth-attr/groupguard/app/webapi/mocks"
	"github.com/hemanth-attr/groupguard/lib/guard/spamcheck"
)

func TestServer_CheckHandler(t *testing.T) {
	detector := &mocks.DetectorMock{CheckFunc: func(req spamcheck.Request) (bool, []spamcheck.Response) {
		return true, []spamcheck.Response{{Name: "keyword", Spam: true, Details: "free crypto"}}
	}}
	s := NewServer(Config{Detector: detector})

	t.Run("spam", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/check",
			strings.NewReader(`{"msg":"free crypto","chat_id":123,"user_id":100,"user_name":"spammer"}`))
		w := httptest.NewRecorder()
		s.checkHandler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"spam":true`)
		assert.Contains(t, w.Body.String(), `"keyword"`)

		require.Len(t, detector.CheckCalls(), 1)
		checkReq := detector.CheckCalls()[0].Req
		assert.Equal(t, "free crypto", checkReq.Msg)
		assert.Equal(t, int64(123), checkReq.ChatID)
		assert.True(t, checkReq.Meta.Classifier, "api checks use the full pipeline")
	})

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(`not json`))
		w := httptest.NewRecorder()
		s.checkHandler(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_Run(t *testing.T) {
	detector := &mocks.DetectorMock{CheckFunc: func(req spamcheck.Request) (bool, []spamcheck.Response) {
		return false, nil
	}}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := NewServer(Config{ListenAddr: addr, Version: "test", Detector: detector})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		var e error
		resp, e = http.Get("http://" + addr + "/ping")
		return e == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-done)
}

func TestServer_RunWithAuth(t *testing.T) {
	detector := &mocks.DetectorMock{CheckFunc: func(req spamcheck.Request) (bool, []spamcheck.Response) {
		return false, nil
	}}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := NewServer(Config{ListenAddr: addr, Detector: detector, AuthPasswd: "secret"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	client := &http.Client{Timeout: time.Second}
	require.Eventually(t, func() bool {
		req, _ := http.NewRequest(http.MethodPost, "http://"+addr+"/check", strings.NewReader(`{"msg":"hi"}`))
		resp, e := client.Do(req)
		if e != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusUnauthorized
	}, 2*time.Second, 20*time.Millisecond, "no credentials rejected")

	req, err := http.NewRequest(http.MethodPost, "http://"+addr+"/check", strings.NewReader(`{"msg":"hi"}`))
	require.NoError(t, err)
	req.SetBasicAuth("groupguard", "secret")
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
