package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"hannas-kitchen/internal/models"
)

// Tab is a storefront menu filter. Cart shows the cart instead of items.
type Tab string

const (
	TabHome   Tab = "Home"
	TabVeg    Tab = "Veg"
	TabNonVeg Tab = "Non-Veg"
	TabCake   Tab = "Cake"
	TabCart   Tab = "Cart"
)

// Tabs in display order.
var Tabs = []Tab{TabHome, TabVeg, TabNonVeg, TabCake, TabCart}

const (
	OrderPlacedToast = "✅ Order placed successfully!"
	toastDuration    = 3 * time.Second
)

// CustomerDetails is the checkout form.
type CustomerDetails struct {
	CustomerName string
	Phone        string
	Address      string
}

// State is everything the storefront shows. Reduce derives the next State
// from the current one and an Action.
type State struct {
	Menu     []models.MenuItem
	Filter   Tab
	Cart     Cart
	Details  CustomerDetails
	Location *Location
	Toast    string
	ToastAt  time.Time
}

// Action is a state transition dispatched to a Session.
type Action interface {
	apply(s State) State
}

type AddToCart struct{ Item models.MenuItem }

type IncrementItem struct{ ItemID string }

type DecrementItem struct{ ItemID string }

type SetFilter struct{ Tab Tab }

type SetDetails struct{ Details CustomerDetails }

type setMenu struct{ items []models.MenuItem }

type setLocation struct{ loc Location }

type setAddress struct{ address string }

type orderPlaced struct {
	at   time.Time
	sent []models.OrderLine
}

func (a AddToCart) apply(s State) State     { s.Cart = s.Cart.Add(a.Item); return s }
func (a IncrementItem) apply(s State) State { s.Cart = s.Cart.Increment(a.ItemID); return s }
func (a DecrementItem) apply(s State) State { s.Cart = s.Cart.Decrement(a.ItemID); return s }
func (a SetFilter) apply(s State) State     { s.Filter = a.Tab; return s }
func (a SetDetails) apply(s State) State    { s.Details = a.Details; return s }
func (a setMenu) apply(s State) State       { s.Menu = a.items; return s }

func (a setLocation) apply(s State) State {
	loc := a.loc
	s.Location = &loc
	return s
}

func (a setAddress) apply(s State) State {
	s.Details.Address = a.address
	return s
}

func (a orderPlaced) apply(s State) State {
	s.Cart = s.Cart.Without(a.sent)
	s.Filter = TabHome
	s.Details = CustomerDetails{}
	s.Location = nil
	s.Toast = OrderPlacedToast
	s.ToastAt = a.at
	return s
}

// Reduce applies a to s. It has no side effects.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

// API is the part of the kitchen API the storefront uses.
type API interface {
	ListItems(ctx context.Context) ([]models.MenuItem, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) error
}

// Session is the storefront state container.
type Session struct {
	mu    sync.Mutex
	state State

	api      API
	locator  Locator
	geocoder Geocoder
	now      func() time.Time
}

// NewSession starts on the Home tab with an empty cart. locator and geocoder
// may be nil, in which case UseMyLocation fails.
func NewSession(api API, locator Locator, geocoder Geocoder) *Session {
	return &Session{
		state:    State{Filter: TabHome},
		api:      api,
		locator:  locator,
		geocoder: geocoder,
		now:      time.Now,
	}
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and returns the resulting state.
func (s *Session) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// LoadMenu fetches the menu once.
func (s *Session) LoadMenu(ctx context.Context) error {
	items, err := s.api.ListItems(ctx)
	if err != nil {
		return err
	}
	s.Dispatch(setMenu{items: items})
	return nil
}

// FilteredMenu returns the menu items in the active tab's category.
func (s *Session) FilteredMenu() []models.MenuItem {
	st := s.State()
	out := make([]models.MenuItem, 0, len(st.Menu))
	for _, item := range st.Menu {
		if string(item.Category) == string(st.Filter) {
			out = append(out, item)
		}
	}
	return out
}

// Toast returns the current toast message while it is still showing.
func (s *Session) Toast() string {
	st := s.State()
	if st.Toast == "" || s.now().Sub(st.ToastAt) >= toastDuration {
		return ""
	}
	return st.Toast
}

// OrderRequest builds the payload for the current cart and details.
func (st State) OrderRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		Items:        st.Cart.RequestLines(),
		TotalAmount:  st.Cart.Total(),
		CustomerName: st.Details.CustomerName,
		Phone:        st.Details.Phone,
		Address:      st.Details.Address,
	}
}

// SubmitOrder sends the cart as an order. On success the submitted lines are
// taken out of the cart, details and location are reset and a toast is shown.
// Items added while the request was in flight stay in the cart. On failure
// state is unchanged and the NetworkError is returned.
func (s *Session) SubmitOrder(ctx context.Context) error {
	st := s.State()
	req := st.OrderRequest()
	if err := s.api.CreateOrder(ctx, req); err != nil {
		return err
	}
	s.Dispatch(orderPlaced{at: s.now(), sent: st.Cart.Lines()})
	return nil
}

// UseMyLocation reads the device position and overwrites the address field
// with its reverse geocoded address. The position is kept for the map even
// when geocoding fails. The cart is never touched.
func (s *Session) UseMyLocation(ctx context.Context) (string, error) {
	if s.locator == nil {
		return "", &GeolocationError{Err: ErrGeolocationUnsupported}
	}
	loc, err := s.locator.CurrentPosition(ctx)
	if err != nil {
		return "", &GeolocationError{Err: err}
	}
	s.Dispatch(setLocation{loc: loc})

	if s.geocoder == nil {
		return "", &GeocodeError{Status: "NO_GEOCODER"}
	}
	address, err := s.geocoder.ReverseGeocode(ctx, loc)
	if err != nil {
		var ge *GeocodeError
		if errors.As(err, &ge) {
			return "", err
		}
		return "", &GeocodeError{Err: err}
	}
	s.Dispatch(setAddress{address: address})
	return address, nil
}

// MapURL returns the map link for the current location or address.
func (s *Session) MapURL() string {
	st := s.State()
	return MapURL(st.Location, st.Details.Address)
}
