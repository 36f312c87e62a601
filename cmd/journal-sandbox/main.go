// Command journal-sandbox serves a mock journal ledger over the JSON-RPC
// gateway protocol, for developing against the SDK's HTTP transport without a
// real network. Latency and failure injection flags help exercise the
// degradation paths.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/soljournal/journal_sdk_go/internal/devseed"
	"github.com/soljournal/journal_sdk_go/pkg/journal"
	"github.com/soljournal/journal_sdk_go/pkg/journal/mock"
	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

type failConfig struct {
	rate float64
	code int
}

func main() {
	addr := flag.String("addr", ":8899", "listen address")
	programID := flag.String("program-id", "", "base58 program id (random when empty)")
	seedPath := flag.String("seed", "", "path to JSON seed for the mock ledger")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	flag.Parse()

	pid := keys.NewRandomAddress()
	if *programID != "" {
		parsed, err := keys.ParseAddress(*programID)
		if err != nil {
			log.Fatalf("parse program id: %v", err)
		}
		pid = parsed
	}

	ledger := mock.New(pid)
	if *seedPath != "" {
		entries, err := devseed.LoadJournalSeed(*seedPath)
		if err != nil {
			log.Fatalf("load seed: %v", err)
		}
		if err := ledger.Seed(entries); err != nil {
			log.Fatalf("apply seed: %v", err)
		}
	}

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		log.Fatalf("parse fail flag: %v", err)
	}

	handler := withMiddleware(*latency, failCfg, rpcHandler(ledger))
	log.Printf("journal sandbox listening on %s (program %s)", *addr, pid)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type mutationParams struct {
	Title   string       `json:"title"`
	Message string       `json:"message"`
	Owner   keys.Address `json:"owner"`
}

type programAccountsParams struct {
	ProgramID keys.Address `json:"programId"`
}

type accountParams struct {
	Address keys.Address `json:"address"`
}

func rpcHandler(ledger *mock.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()

		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, req.ID, -32700, fmt.Sprintf("parse request: %v", err))
			return
		}

		result, err := dispatch(r.Context(), ledger, req.Method, req.Params)
		if err != nil {
			writeError(w, req.ID, -32000, err.Error())
			return
		}
		writeResult(w, req.ID, result)
	}
}

func dispatch(ctx context.Context, ledger *mock.Ledger, method string, params json.RawMessage) (any, error) {
	switch method {
	case "createJournalEntry":
		var p mutationParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return ledger.CreateEntry(ctx, p.Title, p.Message, p.Owner)
	case "updateJournalEntry":
		var p mutationParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return ledger.UpdateEntry(ctx, p.Title, p.Message, p.Owner)
	case "deleteJournalEntry":
		var p mutationParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return ledger.DeleteEntry(ctx, p.Title, p.Owner)
	case "getProgramAccounts":
		var p programAccountsParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		accounts, err := ledger.FetchAll(ctx, p.ProgramID)
		if err != nil {
			return nil, err
		}
		if accounts == nil {
			accounts = []journal.EntryAccount{}
		}
		return accounts, nil
	case "getAccount":
		var p accountParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		account, err := ledger.FetchOne(ctx, p.Address)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, nil
		}
		return account.Entry, nil
	case "getAccountInfo":
		var p accountParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return ledger.AccountInfo(ctx, p.Address)
	default:
		return nil, fmt.Errorf("unknown method %q", method)
	}
}

func writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func writeError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   rpcError{Code: code, Message: message},
	})
}

func withMiddleware(latency time.Duration, fail failConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if latency > 0 {
			time.Sleep(latency)
		}
		if fail.rate > 0 && rand.Float64() < fail.rate {
			http.Error(w, "injected failure", fail.code)
			return
		}
		next(w, r)
	}
}

func parseFailConfig(raw string) (failConfig, error) {
	cfg := failConfig{code: http.StatusInternalServerError}
	if raw == "" {
		return cfg, nil
	}
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return cfg, fmt.Errorf("malformed fail segment %q", part)
		}
		switch kv[0] {
		case "rate":
			rate, err := strconv.ParseFloat(kv[1], 64)
			if err != nil {
				return cfg, fmt.Errorf("parse rate: %w", err)
			}
			cfg.rate = rate
		case "code":
			code, err := strconv.Atoi(kv[1])
			if err != nil {
				return cfg, fmt.Errorf("parse code: %w", err)
			}
			cfg.code = code
		default:
			return cfg, fmt.Errorf("unknown fail key %q", kv[0])
		}
	}
	return cfg, nil
}
