package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Material string

const (
	MaterialLaminate  Material = "laminate"
	MaterialWood      Material = "wood"
	MaterialStone     Material = "stone"
	MaterialComposite Material = "composite"
)

func ParseMaterial(raw string) (Material, bool) {
	switch Material(strings.ToLower(strings.TrimSpace(raw))) {
	case MaterialLaminate:
		return MaterialLaminate, true
	case MaterialWood:
		return MaterialWood, true
	case MaterialStone:
		return MaterialStone, true
	case MaterialComposite:
		return MaterialComposite, true
	}
	return "", false
}

// Per-m2 refinishing price bands in DKK, used for the instant estimate.
var priceBands = map[Material][2]int{
	MaterialLaminate:  {350, 550},
	MaterialWood:      {450, 700},
	MaterialStone:     {600, 950},
	MaterialComposite: {550, 850},
}

// EstimateFor returns a rough low/high price for refinishing area m2 of the
// given material. Small jobs are floored at a minimum callout.
func EstimateFor(m Material, areaM2 float64) (low, high int) {
	band := priceBands[m]
	low = int(math.Round(float64(band[0]) * areaM2))
	high = int(math.Round(float64(band[1]) * areaM2))
	const minimumCallout = 1500
	if low < minimumCallout {
		low = minimumCallout
	}
	if high < low {
		high = low
	}
	return low, high
}

// Lead is a stored estimator submission.
type Lead struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Material     Material  `json:"material"`
	AreaM2       float64   `json:"area_m2"`
	Message      string    `json:"message,omitempty"`
	EstimateLow  int       `json:"estimate_low"`
	EstimateHigh int       `json:"estimate_high"`
	CreatedAt    time.Time `json:"created_at"`
}

// EstimateRequest is the public estimator form payload.
type EstimateRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Material string  `json:"material"`
	AreaM2   float64 `json:"area_m2"`
	Message  string  `json:"message"`
}

func (r *EstimateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Material = strings.ToLower(strings.TrimSpace(r.Material))
	r.Message = strings.TrimSpace(r.Message)
}

func (r *EstimateRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if _, ok := ParseMaterial(r.Material); !ok {
		return errors.New("unknown countertop material")
	}
	if r.AreaM2 <= 0 || r.AreaM2 > 200 {
		return errors.New("area must be between 0 and 200 m2")
	}
	return nil
}
