package stores

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kirinyoku/queuego/internal/clock"
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerID = 42

type publisherStub struct {
	published []int64
}

func (p *publisherStub) PublishQueueChanged(_ context.Context, storeID int64) error {
	p.published = append(p.published, storeID)
	return nil
}

func newService(t *testing.T) (*Service, *memory.Store, *clock.FakeClock, *publisherStub) {
	t.Helper()
	repo := memory.New()
	clk := clock.Fake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	pub := &publisherStub{}
	return New(repo, nil, pub, nil, clk, nil, Config{}), repo, clk, pub
}

func validInput(name string) CreateInput {
	return CreateInput{
		Name:     name,
		Category: domain.CategorySaloon,
		Address:  "1 Main St",
	}
}

func TestCreateStoreDefaults(t *testing.T) {
	svc, _, clk, _ := newService(t)

	st, err := svc.CreateStore(context.Background(), ownerID, validInput("Cuts"))
	require.NoError(t, err)

	assert.NotZero(t, st.ID)
	assert.Equal(t, int64(ownerID), st.OwnerID)
	assert.Equal(t, "10:00", st.OpenTime)
	assert.Equal(t, "20:00", st.CloseTime)
	assert.Equal(t, int64(0), st.Deposit)
	assert.Equal(t, 5, st.DefaultServiceTimeMinutes)
	assert.True(t, st.IsOpen)
	assert.True(t, st.IsActive)
	assert.True(t, svc.IsAcceptingTickets(st))
	assert.Equal(t, clk.Now(), st.CreatedAt)
}

func TestCreateStoreValidation(t *testing.T) {
	svc, _, _, _ := newService(t)

	negative := int64(-1)
	zero := 0
	badClock := "25:00"

	cases := []struct {
		name  string
		mod   func(in *CreateInput)
		field string
	}{
		{"empty name", func(in *CreateInput) { in.Name = "  " }, "name"},
		{"long name", func(in *CreateInput) { in.Name = strings.Repeat("a", 201) }, "name"},
		{"bad category", func(in *CreateInput) { in.Category = "Bakery" }, "category"},
		{"no address", func(in *CreateInput) { in.Address = "" }, "address"},
		{"bad open time", func(in *CreateInput) { in.OpenTime = &badClock }, "open_time"},
		{"negative deposit", func(in *CreateInput) { in.Deposit = &negative }, "deposit"},
		{"zero service time", func(in *CreateInput) { in.DefaultServiceTimeMinutes = &zero }, "default_service_time_minutes"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput("Cuts")
			tt.mod(&in)

			_, err := svc.CreateStore(context.Background(), ownerID, in)
			require.ErrorIs(t, err, ErrInvalidInput)

			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestGetStoreDetails(t *testing.T) {
	ctx := context.Background()
	svc, repo, clk, _ := newService(t)

	st, err := svc.CreateStore(ctx, ownerID, validInput("Cuts"))
	require.NoError(t, err)

	_, err = repo.Catalog().AddService(ctx, &domain.StoreService{StoreID: st.ID, Name: "Trim", CreatedAt: clk.Now()})
	require.NoError(t, err)

	served := clk.Now()
	for i, status := range []domain.TicketStatus{domain.StatusServing, domain.StatusWaiting, domain.StatusWaiting} {
		tk := &domain.Ticket{
			StoreID:      st.ID,
			UserID:       int64(i + 1),
			TicketNumber: i + 1,
			Status:       status,
			CreatedAt:    clk.Now(),
		}
		if status == domain.StatusServing {
			tk.ServedAt = &served
		}
		_, err := repo.Tickets().CreateTicket(ctx, tk)
		require.NoError(t, err)
	}

	details, err := svc.GetStore(ctx, st.ID)
	require.NoError(t, err)

	assert.Equal(t, "Cuts", details.Name)
	assert.Len(t, details.Services, 1)
	assert.Equal(t, 2, details.QueueCount)
	require.NotNil(t, details.CurrentTicket)
	assert.Equal(t, 1, *details.CurrentTicket)
	assert.Equal(t, 10, details.EstimatedWaitTime)
}

func TestGetStoreInactiveIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService(t)

	_, err := svc.GetStore(ctx, 999)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	st, err := svc.CreateStore(ctx, ownerID, validInput("Cuts"))
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateStore(ctx, ownerID, st.ID))

	_, err = svc.GetStore(ctx, st.ID)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	mine, err := svc.MyStores(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestOwnerOnlyMutations(t *testing.T) {
	ctx := context.Background()
	svc, _, _, pub := newService(t)

	st, err := svc.CreateStore(ctx, ownerID, validInput("Cuts"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetOpen(ctx, ownerID+1, st.ID, false), ErrNotStoreOwner)
	assert.ErrorIs(t, svc.DeactivateStore(ctx, ownerID+1, st.ID), ErrNotStoreOwner)

	name := "Other"
	_, err = svc.UpdateStore(ctx, ownerID+1, st.ID, Patch{Name: &name})
	assert.ErrorIs(t, err, ErrNotStoreOwner)
	assert.Empty(t, pub.published)

	require.NoError(t, svc.SetOpen(ctx, ownerID, st.ID, false))
	require.NoError(t, svc.SetOpen(ctx, ownerID, st.ID, false), "closing twice is fine")

	details, err := svc.GetStore(ctx, st.ID)
	require.NoError(t, err)
	assert.False(t, details.IsOpen)
	assert.False(t, svc.IsAcceptingTickets(&details.Store))
	assert.Equal(t, []int64{st.ID, st.ID}, pub.published)
}

func TestUpdateStorePatch(t *testing.T) {
	ctx := context.Background()
	svc, _, clk, _ := newService(t)

	st, err := svc.CreateStore(ctx, ownerID, validInput("Cuts"))
	require.NoError(t, err)

	clk.Advance(time.Hour)
	name := "Better Cuts"
	minutes := 12
	updated, err := svc.UpdateStore(ctx, ownerID, st.ID, Patch{Name: &name, DefaultServiceTimeMinutes: &minutes})
	require.NoError(t, err)

	assert.Equal(t, "Better Cuts", updated.Name)
	assert.Equal(t, 12, updated.DefaultServiceTimeMinutes)
	assert.Equal(t, "1 Main St", updated.Address, "untouched field")
	assert.Equal(t, clk.Now(), updated.UpdatedAt)

	empty := ""
	_, err = svc.UpdateStore(ctx, ownerID, st.ID, Patch{Address: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	details, err := svc.GetStore(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", details.Address, "failed patch is not persisted")
}

func TestListStores(t *testing.T) {
	ctx := context.Background()
	svc, _, clk, _ := newService(t)

	for _, in := range []CreateInput{
		{Name: "City Clinic", Category: domain.CategoryDoctor, Address: "a"},
		{Name: "Shiny", Category: domain.CategoryCarWash, Address: "b", Description: "hand wash"},
		{Name: "Fade", Category: domain.CategorySaloon, Address: "c"},
	} {
		_, err := svc.CreateStore(ctx, ownerID, in)
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}

	all, err := svc.ListStores(ctx, domain.StoreFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Fade", all[0].Name, "newest first")

	found, err := svc.ListStores(ctx, domain.StoreFilter{Search: "WASH"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Shiny", found[0].Name)

	doctors, err := svc.ListStores(ctx, domain.StoreFilter{Category: domain.CategoryDoctor})
	require.NoError(t, err)
	require.Len(t, doctors, 1)

	paged, err := svc.ListStores(ctx, domain.StoreFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "Shiny", paged[0].Name)

	_, err = svc.ListStores(ctx, domain.StoreFilter{Category: "Bakery"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
