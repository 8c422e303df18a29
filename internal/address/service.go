package address

import (
	"context"
	"strings"
	"sync"

	"github.com/bannugul/consumer-gateway/internal/session"
	"github.com/bannugul/consumer-gateway/internal/upstream"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
	"github.com/bannugul/consumer-gateway/pkg/logger"
	"github.com/bannugul/consumer-gateway/pkg/types"
)

// Address is a saved delivery address. The backend flags the default with
// isActive as a 0/1 integer; locally exactly one address is ever selected.
type Address struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Address    string     `json:"address"`
	GPSAddress string     `json:"gps_address"`
	Location   string     `json:"location"`
	City       string     `json:"city,omitempty"`
	IsActive   types.Flag `json:"isActive"`
}

// NewAddress is the add-address form. Location is a "lat,lng" pair.
type NewAddress struct {
	Title      string `json:"title"`
	Address    string `json:"address"`
	GPSAddress string `json:"gps_address"`
	Location   string `json:"location"`
	City       string `json:"city,omitempty"`
}

// Service keeps each session's address book mirrored from upstream with a
// single selected entry. Activation is optimistic: the selection moves
// immediately and is restored from a snapshot if upstream rejects it.
type Service struct {
	gateway upstream.Gateway
	logg    *logger.Logger

	mu      sync.RWMutex
	mirrors map[string][]Address
}

func NewService(gateway upstream.Gateway, logg *logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		logg:    logg,
		mirrors: make(map[string][]Address),
	}
}

func sessionIDOf(ctx context.Context) (string, error) {
	id, ok := session.IDFromContext(ctx)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	return id, nil
}

// markSelected flips the flags so only the given id is active. Returns
// whether the id was found.
func markSelected(addresses []Address, id int64) bool {
	found := false
	for i := range addresses {
		addresses[i].IsActive = types.Flag(addresses[i].ID == id)
		if addresses[i].ID == id {
			found = true
		}
	}
	return found
}

func selectedOf(addresses []Address) (Address, bool) {
	for _, addr := range addresses {
		if bool(addr.IsActive) {
			return addr, true
		}
	}
	return Address{}, false
}

// Load fetches the address book. The server's active flag wins; with no
// active entry the first one becomes the local selection.
func (s *Service) Load(ctx context.Context) ([]Address, error) {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return nil, err
	}

	env, err := s.gateway.Get(ctx, upstream.EndpointShowAddresses, nil)
	if err != nil {
		return nil, err
	}

	var addresses []Address
	if err := env.Decode(&addresses); err != nil {
		return nil, err
	}

	if _, ok := selectedOf(addresses); !ok && len(addresses) > 0 {
		markSelected(addresses, addresses[0].ID)
	} else if len(addresses) > 0 {
		// The server can report several actives; collapse to the first.
		first := int64(0)
		for _, addr := range addresses {
			if bool(addr.IsActive) {
				first = addr.ID
				break
			}
		}
		markSelected(addresses, first)
	}

	s.mu.Lock()
	s.mirrors[sessionID] = addresses
	s.mu.Unlock()

	return s.List(ctx)
}

// List returns a copy of the mirrored address book.
func (s *Service) List(ctx context.Context) ([]Address, error) {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Address(nil), s.mirrors[sessionID]...), nil
}

// Selected returns the single selected address, if any.
func (s *Service) Selected(ctx context.Context) (Address, bool) {
	sessionID, ok := session.IDFromContext(ctx)
	if !ok {
		return Address{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return selectedOf(s.mirrors[sessionID])
}

// Add creates the address upstream, reloads the book, and selects the new
// entry, assumed to be the last one returned.
func (s *Service) Add(ctx context.Context, input NewAddress) (Address, error) {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return Address{}, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Address = strings.TrimSpace(input.Address)
	if input.Title == "" || input.Address == "" {
		return Address{}, pkgerrors.New(pkgerrors.CodeValidation, "title and address are required")
	}

	if _, err := s.gateway.Post(ctx, upstream.EndpointAddAddress, input); err != nil {
		return Address{}, err
	}

	addresses, err := s.Load(ctx)
	if err != nil {
		return Address{}, err
	}
	if len(addresses) == 0 {
		return Address{}, pkgerrors.New(pkgerrors.CodeUpstream, "address book empty after add")
	}

	newest := addresses[len(addresses)-1]
	markSelected(addresses, newest.ID)
	newest.IsActive = true

	s.mu.Lock()
	s.mirrors[sessionID] = addresses
	s.mu.Unlock()

	return newest, nil
}

// SetActive moves the selection to the given address. The change applies
// optimistically and rolls back to a snapshot if upstream rejects it.
func (s *Service) SetActive(ctx context.Context, id int64) (Address, error) {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return Address{}, err
	}

	s.mu.Lock()
	snapshot := append([]Address(nil), s.mirrors[sessionID]...)
	if !markSelected(s.mirrors[sessionID], id) {
		s.mu.Unlock()
		return Address{}, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	s.mu.Unlock()

	if _, err := s.gateway.Post(ctx, upstream.EndpointSetActiveAddress, map[string]int64{"id": id}); err != nil {
		s.mu.Lock()
		s.mirrors[sessionID] = snapshot
		s.mu.Unlock()
		return Address{}, err
	}

	selected, _ := s.Selected(ctx)
	return selected, nil
}

// Delete removes an address. The caller must pass confirm=true; one-step
// deletes are rejected so a stray click cannot drop an address. Deleting
// the selected entry clears the selection.
func (s *Service) Delete(ctx context.Context, id int64, confirm bool) error {
	sessionID, err := sessionIDOf(ctx)
	if err != nil {
		return err
	}
	if !confirm {
		return pkgerrors.New(pkgerrors.CodeValidation, "delete requires confirmation")
	}

	if _, err := s.gateway.Delete(ctx, upstream.EndpointRemoveAddress, map[string]int64{"id": id}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	addresses := s.mirrors[sessionID]
	kept := addresses[:0]
	for _, addr := range addresses {
		if addr.ID != id {
			kept = append(kept, addr)
		}
	}
	s.mirrors[sessionID] = kept
	return nil
}

// Forget drops a session's mirror, for logout.
func (s *Service) Forget(sessionID string) {
	s.mu.Lock()
	delete(s.mirrors, sessionID)
	s.mu.Unlock()
}
