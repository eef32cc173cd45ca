package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, TierBronze},
		{199, TierBronze},
		{200, TierSilver},
		{499, TierSilver},
		{500, TierGold},
		{999, TierGold},
		{1000, TierPlatinum},
		{5000, TierPlatinum},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForPoints(tt.points), "points=%d", tt.points)
	}
}

func TestAddPointsKeepsTierInStep(t *testing.T) {
	user := &User{ID: "u1", Name: "Amal", Tier: TierBronze}
	now := time.Now()

	user.AddPoints(150, "Booked a spot", "Marine Drive", 1, now)
	require.Equal(t, TierBronze, user.Tier)

	user.AddPoints(60, "Booked a spot", "Fort", 2, now)
	require.Equal(t, 210, user.Points)
	require.Equal(t, TierSilver, user.Tier)

	require.Len(t, user.History, 2)
	require.Equal(t, int64(2), user.History[1].TransactionID)
	require.Equal(t, 60, user.History[1].Points)
}

func TestUserCloneIsIndependent(t *testing.T) {
	user := &User{ID: "u1", Name: "Amal"}
	user.AddPoints(10, "Booked a spot", "Fort", 1, time.Now())

	clone := user.Clone()
	clone.History[0].Points = 999
	clone.WalletBalance = 50

	require.Equal(t, 10, user.History[0].Points)
	require.Zero(t, user.WalletBalance)
}
