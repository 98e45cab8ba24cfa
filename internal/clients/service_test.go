package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	clients map[int64]Client
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{clients: make(map[int64]Client), nextID: 1}
}

func (s *memStore) List(_ context.Context, filter ListFilter) ([]Client, error) {
	var result []Client
	for _, c := range s.clients {
		if filter.Active != nil && c.Active != *filter.Active {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (s *memStore) Get(_ context.Context, id int64) (*Client, error) {
	c, ok := s.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *memStore) GetByIDs(_ context.Context, ids []int64) (map[int64]Client, error) {
	result := make(map[int64]Client, len(ids))
	for _, id := range ids {
		if c, ok := s.clients[id]; ok {
			result[id] = c
		}
	}
	return result, nil
}

func (s *memStore) Insert(_ context.Context, c Client) (int64, error) {
	c.ID = s.nextID
	s.nextID++
	s.clients[c.ID] = c
	return c.ID, nil
}

func (s *memStore) Update(_ context.Context, id int64, c Client) error {
	if _, ok := s.clients[id]; !ok {
		return ErrNotFound
	}
	c.ID = id
	s.clients[id] = c
	return nil
}

func (s *memStore) SoftDelete(_ context.Context, id int64) error {
	c, ok := s.clients[id]
	if !ok {
		return ErrNotFound
	}
	c.Active = false
	s.clients[id] = c
	return nil
}

func TestServiceCreateStartsActive(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	client, err := svc.Create(context.Background(), CreateClientRequest{
		Name:  "Maria Souza",
		Email: "maria@example.com",
	})
	require.NoError(t, err)
	assert.True(t, client.Active)
	assert.Equal(t, "Maria Souza", client.Name)
}

func TestServiceCreateRejectsInvalidEmail(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	_, err := svc.Create(context.Background(), CreateClientRequest{
		Name:  "Maria Souza",
		Email: "not-an-email",
	})
	require.Error(t, err)
	assert.Empty(t, store.clients)
}

func TestServiceUpdateMergesFields(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	created, err := svc.Create(context.Background(), CreateClientRequest{
		Name:  "Maria Souza",
		Email: "maria@example.com",
	})
	require.NoError(t, err)

	phone := "11 99999-0000"
	updated, err := svc.Update(context.Background(), created.ID, UpdateClientRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", updated.Name, "untouched fields survive")
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func TestDeactivatedClientLeavesListingButStaysResolvable(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateClientRequest{Name: "Maria Souza", Email: "maria@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, created.ID))

	active := true
	list, err := svc.List(ctx, ListFilter{Active: &active})
	require.NoError(t, err)
	assert.Empty(t, list, "default listing hides deactivated clients")

	// Historical orders still resolve the row by id.
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	byIDs, err := store.GetByIDs(ctx, []int64{created.ID})
	require.NoError(t, err)
	assert.Contains(t, byIDs, created.ID)
}

func TestDeactivateUnknownClient(t *testing.T) {
	svc := NewService(newMemStore())
	err := svc.Deactivate(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
}
