package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveScorePrefersOverride(t *testing.T) {
	c := &Client{Score: 42}
	assert.Equal(t, 42, c.EffectiveScore())

	override := 85
	c.ScoreOverride = &override
	assert.Equal(t, 85, c.EffectiveScore())
}

func TestMergeCapture(t *testing.T) {
	existing := &Client{
		Name:    "Priya",
		Phone:   "919876543210",
		Company: "Glow Studio",
		Context: "asked about pricing",
		Status:  StatusNew,
	}

	existing.MergeCapture(&Client{
		Email:   "priya@glow.example",
		Company: "",
		Urgency: "high",
		Context: "wants a demo this week",
	})

	assert.Equal(t, "Priya", existing.Name)
	assert.Equal(t, "Glow Studio", existing.Company, "blank incoming field must not clobber")
	assert.Equal(t, "priya@glow.example", existing.Email)
	assert.Equal(t, "high", existing.Urgency)
	assert.Equal(t, "asked about pricing\n---\nwants a demo this week", existing.Context)
	assert.Equal(t, StatusContacted, existing.Status)
}

func TestMergeCaptureLeavesAdvancedStatus(t *testing.T) {
	c := &Client{Phone: "1", Status: StatusBooked}
	c.MergeCapture(&Client{Name: "x"})
	assert.Equal(t, StatusBooked, c.Status)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("booked"))
	assert.True(t, ValidStatus("NEW"))
	assert.False(t, ValidStatus("archived"))
}

func TestInMemoryRepositoryLifecycle(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &Client{Name: "no phone"})
	require.ErrorIs(t, err, ErrMissingPhone)

	created, err := repo.Create(ctx, &Client{Phone: "919876543210", Name: "Priya"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, StatusNew, created.Status)

	byPhone, err := repo.GetByPhone(ctx, "919876543210")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	require.NoError(t, repo.SetStatus(ctx, created.ID, StatusBooked))
	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, got.Status)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestMarkEscalatedOnlyOnce(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &Client{Phone: "919876543210"})
	require.NoError(t, err)

	first, err := repo.MarkEscalated(ctx, created.ID, "Critical urgency declared")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.MarkEscalated(ctx, created.ID, "again")
	require.NoError(t, err)
	assert.False(t, second)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Critical urgency declared", got.EscalationReason)

	_, err = repo.MarkEscalated(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrClientNotFound)
}
