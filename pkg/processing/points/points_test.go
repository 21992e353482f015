//nolint:funlen // ok for tests
package points

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/virtualracing/league-standings-go/pkg/model"
)

func samplePointsSystem() *model.PointsSystem {
	return &model.PointsSystem{
		ID:   1,
		Name: "standard",
		Table: map[int]decimal.Decimal{
			1: decimal.NewFromInt(25),
			2: decimal.NewFromInt(18),
			3: decimal.RequireFromString("15.5"),
		},
		DNFPoints: decimal.NewFromInt(2),
		DNSPoints: decimal.Zero,
	}
}

func TestCalculator_Calculate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		results []model.ScoredResult
		want    map[int]string
	}{
		{
			name: "table positions",
			results: []model.ScoredResult{
				{DriverID: 1, Position: 1},
				{DriverID: 2, Position: 3},
			},
			want: map[int]string{1: "25", 2: "15.5"},
		},
		{
			name: "position outside table earns nothing",
			results: []model.ScoredResult{
				{DriverID: 1, Position: 7},
			},
			want: map[int]string{1: "0"},
		},
		{
			name: "unranked earns nothing",
			results: []model.ScoredResult{
				{DriverID: 1, Position: 0},
			},
			want: map[int]string{1: "0"},
		},
		{
			name: "dnf points are additive to position points",
			results: []model.ScoredResult{
				{DriverID: 1, Position: 2, DNF: true},
				{DriverID: 2, Position: 0, DNF: true},
			},
			want: map[int]string{1: "20", 2: "2"},
		},
		{
			name: "fastest lap bonus",
			opts: []Option{WithBonusRules([]model.BonusRule{
				{Kind: model.BonusFastestLap, Value: decimal.NewFromInt(1)},
			})},
			results: []model.ScoredResult{
				{DriverID: 1, Position: 1, HasFastestLap: true},
				{DriverID: 2, Position: 2},
			},
			want: map[int]string{1: "26", 2: "18"},
		},
		{
			name: "top10 restriction blocks bonus outside top 10",
			opts: []Option{WithBonusRules([]model.BonusRule{
				{
					Kind:        model.BonusFastestLap,
					Value:       decimal.NewFromInt(1),
					Restriction: model.RestrictionTop10Only,
				},
			})},
			results: []model.ScoredResult{
				{DriverID: 1, Position: 11, HasFastestLap: true},
				{DriverID: 2, Position: 0, HasFastestLap: true},
			},
			want: map[int]string{1: "0", 2: "0"},
		},
		{
			name: "pole bonus on qualifying result",
			opts: []Option{WithBonusRules([]model.BonusRule{
				{Kind: model.BonusPole, Value: decimal.RequireFromString("0.5")},
			})},
			results: []model.ScoredResult{
				{DriverID: 1, Position: 1, HasPole: true},
			},
			want: map[int]string{1: "25.5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator(tt.opts...)
			got, err := calc.Calculate(samplePointsSystem(), tt.results)
			assert.NoError(t, err)
			assert.Len(t, got, len(tt.want))
			for driverID, want := range tt.want {
				assert.Truef(t, got[driverID].Equal(decimal.RequireFromString(want)),
					"driver %d: got %v, want %v", driverID, got[driverID], want)
			}
		})
	}
}

func TestValidateSystem(t *testing.T) {
	tests := []struct {
		name    string
		ps      *model.PointsSystem
		wantErr bool
	}{
		{name: "valid", ps: samplePointsSystem()},
		{name: "nil", ps: nil, wantErr: true},
		{
			name:    "empty table",
			ps:      &model.PointsSystem{Table: map[int]decimal.Decimal{}},
			wantErr: true,
		},
		{
			name: "invalid position",
			ps: &model.PointsSystem{Table: map[int]decimal.Decimal{
				0: decimal.NewFromInt(1),
			}},
			wantErr: true,
		},
		{
			name: "negative points",
			ps: &model.PointsSystem{Table: map[int]decimal.Decimal{
				1: decimal.NewFromInt(-5),
			}},
			wantErr: true,
		},
		{
			name: "too many decimals",
			ps: &model.PointsSystem{Table: map[int]decimal.Decimal{
				1: decimal.RequireFromString("10.125"),
			}},
			wantErr: true,
		},
		{
			name: "too many decimals in dnf points",
			ps: &model.PointsSystem{
				Table:     map[int]decimal.Decimal{1: decimal.NewFromInt(10)},
				DNFPoints: decimal.RequireFromString("0.333"),
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSystem(tt.ps)
			if tt.wantErr {
				assert.Error(t, err)
				var cfgErr *model.ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
