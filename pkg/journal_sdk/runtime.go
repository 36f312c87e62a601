package journal_sdk

import (
	"fmt"
	"os"
	"strings"

	"github.com/soljournal/journal_sdk_go/internal/devseed"
	"github.com/soljournal/journal_sdk_go/pkg/journal"
	"github.com/soljournal/journal_sdk_go/pkg/journal/mock"
	"github.com/soljournal/journal_sdk_go/pkg/keys"
)

const (
	envMode      = "JOURNAL_RUNTIME_MODE"
	envRPCURL    = "JOURNAL_RPC_URL"
	envProgramID = "JOURNAL_PROGRAM_ID"
	envCluster   = "JOURNAL_CLUSTER"
	envIdentity  = "JOURNAL_IDENTITY"
	envMockSeed  = "JOURNAL_MOCK_SEED"

	modeAuto = "auto"
	modeHTTP = "http"
	modeMock = "mock"
)

// NewFromEnv builds a journal program bundle from environment variables and
// returns the resolved mode ("http" or "mock"). In auto mode the presence of
// both JOURNAL_RPC_URL and JOURNAL_PROGRAM_ID selects http; otherwise a
// seeded in-memory mock ledger is used.
func NewFromEnv(opts ...journal.ProgramOption) (*journal.Program, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(envMode)))
	rpcURL := strings.TrimSpace(os.Getenv(envRPCURL))
	programID := strings.TrimSpace(os.Getenv(envProgramID))

	switch mode {
	case "", modeAuto:
		if rpcURL != "" && programID != "" {
			return newHTTPProgram(rpcURL, programID, opts)
		}
		return newMockProgram(programID, opts)
	case modeHTTP:
		if rpcURL == "" || programID == "" {
			return nil, "", fmt.Errorf("journal_sdk: HTTP mode requires %s and %s", envRPCURL, envProgramID)
		}
		return newHTTPProgram(rpcURL, programID, opts)
	case modeMock:
		return newMockProgram(programID, opts)
	default:
		return nil, "", fmt.Errorf("journal_sdk: unsupported %s value %q", envMode, mode)
	}
}

func newHTTPProgram(rpcURL, programID string, opts []journal.ProgramOption) (*journal.Program, string, error) {
	pid, err := keys.ParseAddress(programID)
	if err != nil {
		return nil, "", fmt.Errorf("journal_sdk: parse %s: %w", envProgramID, err)
	}
	identity, err := identityFromEnv()
	if err != nil {
		return nil, "", err
	}
	cluster := strings.TrimSpace(os.Getenv(envCluster))
	if cluster == "" {
		cluster = "devnet"
	}

	program := journal.NewProgram(journal.Config{
		ProgramID: pid,
		Cluster:   cluster,
	}, &journal.Provider{
		Endpoint: rpcURL,
		Identity: identity,
	}, opts...)
	return program, modeHTTP, nil
}

func newMockProgram(programID string, opts []journal.ProgramOption) (*journal.Program, string, error) {
	pid := keys.NewRandomAddress()
	if programID != "" {
		parsed, err := keys.ParseAddress(programID)
		if err != nil {
			return nil, "", fmt.Errorf("journal_sdk: parse %s: %w", envProgramID, err)
		}
		pid = parsed
	}
	identity, err := identityFromEnv()
	if err != nil {
		return nil, "", err
	}
	if identity.IsZero() {
		identity = keys.NewRandomAddress()
	}

	ledger := mock.New(pid)
	if path := strings.TrimSpace(os.Getenv(envMockSeed)); path != "" {
		entries, err := devseed.LoadJournalSeed(path)
		if err != nil {
			return nil, "", fmt.Errorf("journal_sdk: load mock seed: %w", err)
		}
		if err := ledger.Seed(entries); err != nil {
			return nil, "", fmt.Errorf("journal_sdk: apply mock seed: %w", err)
		}
	}

	cluster := strings.TrimSpace(os.Getenv(envCluster))
	if cluster == "" {
		cluster = "localnet"
	}

	program := journal.NewProgram(journal.Config{
		ProgramID: pid,
		Cluster:   cluster,
	}, &journal.Provider{
		Backend:  ledger,
		Identity: identity,
	}, opts...)
	return program, modeMock, nil
}

func identityFromEnv() (keys.Address, error) {
	raw := strings.TrimSpace(os.Getenv(envIdentity))
	if raw == "" {
		return keys.Zero, nil
	}
	identity, err := keys.ParseAddress(raw)
	if err != nil {
		return keys.Zero, fmt.Errorf("journal_sdk: parse %s: %w", envIdentity, err)
	}
	return identity, nil
}
