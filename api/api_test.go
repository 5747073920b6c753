// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/bank"
	"github.com/arkive-net/arkive/ledger"
	"github.com/arkive-net/arkive/lvldb"
)

var arbiter = arkive.BytesToAddress([]byte("arbiter"))

func newTestServer(t *testing.T) (*httptest.Server, *clockwork.FakeClock) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := clockwork.NewFakeClockAt(time.Unix(1_000_000, 0))
	payouts := bank.New(db)
	ldgr := ledger.New(db, payouts, ledger.NewSoleArbiter(arbiter), clock, ledger.Config{
		MinStake:        big.NewInt(1000),
		ChallengeBond:   big.NewInt(100),
		ChallengePeriod: time.Hour,
		SlashPercent:    10,
		MaxBatchSize:    4,
	})

	server := httptest.NewServer(New(ldgr, payouts, Options{AllowedOrigins: "*"}))
	t.Cleanup(server.Close)
	return server, clock
}

func httpPost(t *testing.T, url string, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, raw
}

func httpGet(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, raw
}

func TestOperatorEndpoints(t *testing.T) {
	server, _ := newTestServer(t)
	op := arkive.BytesToAddress([]byte("op"))

	code, _ := httpPost(t, server.URL+"/operators", map[string]any{
		"address":  op.String(),
		"endpoint": "https://op.example",
		"stake":    "2000",
	})
	require.Equal(t, http.StatusCreated, code)

	// below-minimum stake is a bad request
	code, _ = httpPost(t, server.URL+"/operators", map[string]any{
		"address": arkive.BytesToAddress([]byte("poor")).String(),
		"stake":   "1",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := httpGet(t, server.URL+"/operators")
	require.Equal(t, http.StatusOK, code)
	var active []arkive.Address
	require.NoError(t, json.Unmarshal(body, &active))
	assert.Equal(t, []arkive.Address{op}, active)

	code, body = httpGet(t, server.URL+"/operators/"+op.String())
	require.Equal(t, http.StatusOK, code)
	var detail map[string]any
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Equal(t, op.String(), detail["address"])
	assert.Equal(t, "https://op.example", detail["endpoint"])
	assert.Equal(t, true, detail["active"])

	// unknown operator is a 404
	code, _ = httpGet(t, server.URL+"/operators/"+arkive.BytesToAddress([]byte("ghost")).String())
	assert.Equal(t, http.StatusNotFound, code)
	// malformed address is a 400
	code, _ = httpGet(t, server.URL+"/operators/0x1234")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = httpPost(t, server.URL+"/operators/"+op.String()+"/stake", map[string]any{"amount": "500"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = httpPost(t, server.URL+"/operators/"+op.String()+"/withdrawals", map[string]any{"amount": "1500"})
	assert.Equal(t, http.StatusOK, code)

	code, body = httpPost(t, server.URL+"/operators/"+op.String()+"/claims", nil)
	require.Equal(t, http.StatusOK, code)
	var claim map[string]any
	require.NoError(t, json.Unmarshal(body, &claim))
	assert.Equal(t, "0x0", claim["paid"])

	code, _ = httpPost(t, server.URL+"/operators/"+op.String()+"/deactivation", nil)
	assert.Equal(t, http.StatusOK, code)
	code, body = httpGet(t, server.URL+"/operators")
	require.Equal(t, http.StatusOK, code)
	active = nil
	require.NoError(t, json.Unmarshal(body, &active))
	assert.Empty(t, active)
}

func TestCommitmentEndpoints(t *testing.T) {
	server, _ := newTestServer(t)
	op := arkive.BytesToAddress([]byte("op"))
	content := arkive.BytesToBytes32([]byte("content"))

	code, _ := httpPost(t, server.URL+"/operators", map[string]any{
		"address": op.String(),
		"stake":   "1000",
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = httpPost(t, server.URL+"/commitments", map[string]any{
		"operator":   op.String(),
		"contentIds": []string{content.String()},
	})
	require.Equal(t, http.StatusCreated, code)

	// batch over the limit is rejected
	ids := make([]string, 5)
	for i := range ids {
		ids[i] = content.String()
	}
	code, _ = httpPost(t, server.URL+"/commitments", map[string]any{
		"operator":   op.String(),
		"contentIds": ids,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := httpGet(t, server.URL+"/commitments/"+content.String())
	require.Equal(t, http.StatusOK, code)
	var list map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, []any{op.String()}, list["archivers"])
}

func TestChallengeEndpoints(t *testing.T) {
	server, clock := newTestServer(t)
	op := arkive.BytesToAddress([]byte("op"))
	challengerAddr := arkive.BytesToAddress([]byte("challenger"))
	content := arkive.BytesToBytes32([]byte("content"))

	code, _ := httpPost(t, server.URL+"/operators", map[string]any{
		"address": op.String(),
		"stake":   "5000",
	})
	require.Equal(t, http.StatusCreated, code)

	// wrong bond is rejected
	code, _ = httpPost(t, server.URL+"/challenges", map[string]any{
		"challenger": challengerAddr.String(),
		"operator":   op.String(),
		"contentId":  content.String(),
		"bond":       "99",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := httpPost(t, server.URL+"/challenges", map[string]any{
		"challenger": challengerAddr.String(),
		"operator":   op.String(),
		"contentId":  content.String(),
		"bond":       "100",
	})
	require.Equal(t, http.StatusCreated, code)
	var opened map[string]string
	require.NoError(t, json.Unmarshal(body, &opened))
	id := opened["id"]

	// only the arbiter may rule
	code, _ = httpPost(t, server.URL+"/challenges/"+id+"/resolution", map[string]any{
		"caller":          challengerAddr.String(),
		"operatorHasData": true,
	})
	assert.Equal(t, http.StatusForbidden, code)

	// not expired yet
	code, _ = httpPost(t, server.URL+"/challenges/"+id+"/expiration", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = httpPost(t, server.URL+"/challenges/"+id+"/resolution", map[string]any{
		"caller":          arbiter.String(),
		"operatorHasData": false,
	})
	require.Equal(t, http.StatusOK, code)

	code, body = httpGet(t, server.URL+"/challenges/"+id)
	require.Equal(t, http.StatusOK, code)
	var challenge map[string]any
	require.NoError(t, json.Unmarshal(body, &challenge))
	assert.Equal(t, true, challenge["resolved"])
	assert.Equal(t, false, challenge["operatorWon"])

	// terminal
	code, _ = httpPost(t, server.URL+"/challenges/"+id+"/resolution", map[string]any{
		"caller":          arbiter.String(),
		"operatorHasData": true,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// expiration path on a fresh challenge
	code, body = httpPost(t, server.URL+"/challenges", map[string]any{
		"challenger": challengerAddr.String(),
		"operator":   op.String(),
		"contentId":  content.String(),
		"bond":       "100",
	})
	require.Equal(t, http.StatusCreated, code)
	require.NoError(t, json.Unmarshal(body, &opened))
	clock.Advance(2 * time.Hour)
	code, _ = httpPost(t, server.URL+"/challenges/"+opened["id"]+"/expiration", nil)
	assert.Equal(t, http.StatusOK, code)

	// unknown challenge is a 404
	code, _ = httpGet(t, server.URL+"/challenges/"+arkive.BytesToBytes32([]byte("unknown")).String())
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLedgerInfoEndpoints(t *testing.T) {
	server, _ := newTestServer(t)
	op := arkive.BytesToAddress([]byte("op"))

	code, _ := httpPost(t, server.URL+"/operators", map[string]any{
		"address": op.String(),
		"stake":   "4000",
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = httpPost(t, server.URL+"/ledger/pool", map[string]any{"amount": "400"})
	require.Equal(t, http.StatusOK, code)

	code, body := httpGet(t, server.URL+"/ledger")
	require.Equal(t, http.StatusOK, code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, "0xfa0", info["totalStake"])
	assert.Equal(t, "0x190", info["rewardPool"])
	assert.Equal(t, float64(1), info["activeOperators"])
}
