package services

import (
	"bytes"
	"context"
	"log/slog"
	"push-service/internal/models"
	"sync"
)

type fakeProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]models.UserProfile
	order    []string
	err      error
	getAll   int
	getByID  []string
}

func newFakeProfileRepository(profiles ...models.UserProfile) *fakeProfileRepository {
	repo := &fakeProfileRepository{profiles: map[string]models.UserProfile{}}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
		repo.order = append(repo.order, p.ID)
	}
	return repo
}

func (f *fakeProfileRepository) GetAll(_ context.Context) ([]models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getAll++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.UserProfile, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.profiles[id])
	}
	return out, nil
}

func (f *fakeProfileRepository) GetByID(_ context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getByID = append(f.getByID, userID)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProfileRepository) lookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getAll + len(f.getByID)
}

type sentOne struct {
	token   string
	payload models.NotificationPayload
}

type fakeGateway struct {
	mu           sync.Mutex
	sent         []sentOne
	batches      [][]string
	payloads     []models.NotificationPayload
	sendErr      error
	batchErr     map[int]error     // by batch index
	failedTokens map[string]string // token -> error message
}

func (g *fakeGateway) SendOne(_ context.Context, token string, payload models.NotificationPayload) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, sentOne{token: token, payload: payload})
	if g.sendErr != nil {
		return "", g.sendErr
	}
	return "msg-" + token, nil
}

func (g *fakeGateway) SendMulticast(_ context.Context, tokens []string, payload models.NotificationPayload) ([]models.DeliveryOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	index := len(g.batches)
	g.batches = append(g.batches, append([]string(nil), tokens...))
	g.payloads = append(g.payloads, payload)
	if err := g.batchErr[index]; err != nil {
		return nil, err
	}

	outcomes := make([]models.DeliveryOutcome, len(tokens))
	for i, token := range tokens {
		if message, failed := g.failedTokens[token]; failed {
			outcomes[i] = models.DeliveryOutcome{Token: token, ErrorMessage: message}
			continue
		}
		outcomes[i] = models.DeliveryOutcome{Token: token, Success: true, MessageID: "msg-" + token}
	}
	return outcomes, nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent) + len(g.batches)
}

func newCapturedLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
