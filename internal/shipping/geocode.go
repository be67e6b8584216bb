package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	defaultViaCEPURL    = "https://viacep.com.br/ws"
	resolverUserAgent   = "storefront/1.0"
)

// HTTPResolver resolves postal codes via Nominatim, falling back to a
// ViaCEP address lookup followed by a free-text Nominatim search. The
// client timeout bounds the whole chain; every failure maps to
// domain.ErrUnresolvableAddress so a slow or broken lookup can never
// hang a checkout.
type HTTPResolver struct {
	client       *http.Client
	nominatimURL string
	viaCEPURL    string
	country      string
}

func NewHTTPResolver(timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		client:       &http.Client{Timeout: timeout},
		nominatimURL: defaultNominatimURL,
		viaCEPURL:    defaultViaCEPURL,
		country:      "Brazil",
	}
}

type nominatimHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type viaCEPAddress struct {
	Street string `json:"logradouro"`
	City   string `json:"localidade"`
	State  string `json:"uf"`
	Err    bool   `json:"erro"`
}

func (r *HTTPResolver) Resolve(ctx context.Context, postalCode string) (Coord, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(postalCode), "-", "")
	if clean == "" {
		return Coord{}, domain.ErrUnresolvableAddress
	}

	if coord, err := r.searchNominatim(ctx, url.Values{
		"postalcode": {clean},
		"country":    {r.country},
		"format":     {"json"},
	}); err == nil {
		return coord, nil
	}

	addr, err := r.lookupViaCEP(ctx, clean)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %v", domain.ErrUnresolvableAddress, err)
	}

	query := fmt.Sprintf("%s, %s, %s", addr.Street, addr.City, addr.State)
	coord, err := r.searchNominatim(ctx, url.Values{
		"q":       {query},
		"country": {r.country},
		"format":  {"json"},
	})
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %v", domain.ErrUnresolvableAddress, err)
	}
	return coord, nil
}

func (r *HTTPResolver) searchNominatim(ctx context.Context, params url.Values) (Coord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.nominatimURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coord{}, err
	}
	req.Header.Set("User-Agent", resolverUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return Coord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coord{}, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return Coord{}, err
	}
	if len(hits) == 0 {
		return Coord{}, fmt.Errorf("no match")
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return Coord{}, err
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return Coord{}, err
	}
	return Coord{Lat: lat, Lon: lon}, nil
}

func (r *HTTPResolver) lookupViaCEP(ctx context.Context, postalCode string) (*viaCEPAddress, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", r.viaCEPURL, postalCode), nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("viacep status %d", resp.StatusCode)
	}

	var addr viaCEPAddress
	if err := json.NewDecoder(resp.Body).Decode(&addr); err != nil {
		return nil, err
	}
	if addr.Err {
		return nil, fmt.Errorf("unknown postal code")
	}
	return &addr, nil
}
