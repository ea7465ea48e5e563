// Package pricing computes snow-clearing prices. A fixed base fee per postal area is split
// among the bookings in that area, and an hourly component is added for the job duration.
package pricing

import (
	"fmt"
	"math"

	"snowpool/internal/models"
)

const (
	DefaultBasePricePerArea = 50.0
	DefaultHourlyRate       = 100.0
	DefaultTimeUnitMinutes  = 15

	// CurrencySuffix is appended by FormatPrice.
	CurrencySuffix = "€"
)

type Config struct {
	BasePricePerArea float64 `yaml:"base_price_per_area" json:"base_price_per_area"`
	HourlyRate       float64 `yaml:"hourly_rate" json:"hourly_rate"`
	// TimeUnitMinutes is the billing increment. CalculatePrice does not round to it.
	TimeUnitMinutes int `yaml:"time_unit_minutes" json:"time_unit_minutes"`
}

func DefaultConfig() Config {
	return Config{
		BasePricePerArea: DefaultBasePricePerArea,
		HourlyRate:       DefaultHourlyRate,
		TimeUnitMinutes:  DefaultTimeUnitMinutes,
	}
}

// Breakdown is the result of a price calculation. Amounts are not rounded.
type Breakdown struct {
	BasePrice            float64 `json:"base_price"`
	BasePricePerCustomer float64 `json:"base_price_per_customer"`
	HourlyComponent      float64 `json:"hourly_component"`
	TotalPrice           float64 `json:"total_price"`
	DiscountMultiplier   float64 `json:"discount_multiplier"`
	BookingsCount        int     `json:"bookings_count"`
}

// CalculatePrice splits the area base fee over bookingsInSameArea bookings and adds the
// hourly component for estimatedTimeMinutes. A non-positive booking count is treated as 1.
func CalculatePrice(estimatedTimeMinutes, bookingsInSameArea int, cfg Config) Breakdown {
	bookingsCount := max(1, bookingsInSameArea)
	discountMultiplier := 1 / float64(bookingsCount)

	basePricePerCustomer := cfg.BasePricePerArea * discountMultiplier
	hourlyComponent := cfg.HourlyRate * (float64(estimatedTimeMinutes) / 60)

	return Breakdown{
		BasePrice:            cfg.BasePricePerArea,
		BasePricePerCustomer: basePricePerCustomer,
		HourlyComponent:      hourlyComponent,
		TotalPrice:           basePricePerCustomer + hourlyComponent,
		DiscountMultiplier:   discountMultiplier,
		BookingsCount:        bookingsCount,
	}
}

// Calculator binds a pricing configuration.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) Calculator {
	return Calculator{cfg: cfg}
}

func (c Calculator) Config() Config {
	return c.cfg
}

func (c Calculator) Calculate(estimatedTimeMinutes, bookingsInSameArea int) Breakdown {
	return CalculatePrice(estimatedTimeMinutes, bookingsInSameArea, c.cfg)
}

// RoundToTimeUnit rounds minutes up to the next multiple of unit, e.g. 20 -> 30 for 15-minute units.
func RoundToTimeUnit(minutes, unit int) int {
	if unit <= 0 {
		unit = DefaultTimeUnitMinutes
	}
	return int(math.Ceil(float64(minutes)/float64(unit))) * unit
}

var estimatedMinutes = map[models.YardSize]int{
	models.YardSmall:  15, // up to 200 m²
	models.YardMedium: 30, // 200-500 m²
	models.YardLarge:  45, // over 500 m²
}

// EstimatedTime returns the expected job duration in minutes for a yard size, 0 if unknown.
func EstimatedTime(size models.YardSize) int {
	return estimatedMinutes[size]
}

// FormatPrice renders an amount with two decimals and the currency suffix.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%.2f%s", amount, CurrencySuffix)
}
