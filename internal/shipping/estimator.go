// Package shipping estimates delivery cost and time from great-circle
// distance between the warehouse and a destination postal code.
package shipping

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

const earthRadiusKm = 6371

type Coord struct {
	Lat float64
	Lon float64
}

// Resolver turns a postal code into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, postalCode string) (Coord, error)
}

// Tier maps a distance band to a fee and delivery estimate. Tiers are
// checked in order; the last tier should use math.Inf(1) as MaxKm.
type Tier struct {
	MaxKm   float64
	Fee     decimal.Decimal
	ETADays int
}

type Estimate struct {
	DistanceKm float64         `json:"distanceKm"`
	Fee        decimal.Decimal `json:"fee"`
	ETADays    int             `json:"etaDays"`
}

// DefaultTiers returns the storefront's standard fee schedule.
func DefaultTiers() []Tier {
	return []Tier{
		{MaxKm: 10, Fee: decimal.RequireFromString("15.00"), ETADays: 3},
		{MaxKm: 20, Fee: decimal.RequireFromString("25.00"), ETADays: 5},
		{MaxKm: math.Inf(1), Fee: decimal.RequireFromString("30.00"), ETADays: 7},
	}
}

type Estimator struct {
	origin   Coord
	tiers    []Tier
	resolver Resolver
}

func NewEstimator(origin Coord, tiers []Tier, resolver Resolver) *Estimator {
	return &Estimator{origin: origin, tiers: tiers, resolver: resolver}
}

// Estimate resolves the destination and maps its distance onto a tier.
// Resolution failures, including timeouts, surface as
// domain.ErrUnresolvableAddress with no partial result.
func (e *Estimator) Estimate(ctx context.Context, postalCode string) (Estimate, error) {
	dest, err := e.resolver.Resolve(ctx, postalCode)
	if err != nil {
		if errors.Is(err, domain.ErrUnresolvableAddress) {
			return Estimate{}, err
		}
		return Estimate{}, fmt.Errorf("%w: %v", domain.ErrUnresolvableAddress, err)
	}

	dist := haversineKm(e.origin, dest)
	for _, tier := range e.tiers {
		if dist <= tier.MaxKm {
			return Estimate{DistanceKm: roundKm(dist), Fee: tier.Fee, ETADays: tier.ETADays}, nil
		}
	}
	return Estimate{}, fmt.Errorf("no tier covers distance %.1f km", dist)
}

// haversineKm computes the great-circle distance between two points.
func haversineKm(a, b Coord) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func roundKm(v float64) float64 {
	return math.Round(v*10) / 10
}
