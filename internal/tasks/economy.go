package tasks

import (
	"fmt"

	"github.com/fentz26/critterfocus/internal/models"
)

// Reward is an item in the reward shop.
type Reward struct {
	Code        string
	Name        string
	Description string
	Cost        int
}

var rewardCatalog = []Reward{
	{Code: "coffee", Name: "Coffee Voucher", Description: "Get a free coffee!", Cost: 100},
	{Code: "hat", Name: "Creature Hat", Description: "Stylish hat for your creature", Cost: 50},
	{Code: "glasses", Name: "Creature Glasses", Description: "Smart glasses for your creature", Cost: 75},
	{Code: "music", Name: "Premium Focus Music", Description: "Unlock premium focus soundtracks", Cost: 150},
}

// RewardCatalog returns the reward shop items.
func RewardCatalog() []Reward {
	return append([]Reward(nil), rewardCatalog...)
}

func findReward(code string) (Reward, bool) {
	code = models.NormalizeKey(code)
	for _, r := range rewardCatalog {
		if r.Code == code {
			return r, true
		}
	}
	return Reward{}, false
}

// Economy returns a copy of the currency and legacy creature state.
func (s *Store) Economy() models.Economy {
	s.mu.Lock()
	defer s.mu.Unlock()

	eco := s.state.Economy
	if eco.Redemptions != nil {
		eco.Redemptions = append([]models.Redemption(nil), eco.Redemptions...)
	}
	return eco
}

// AddVirtualCurrency credits amount and returns the new balance. Negative
// amounts are rejected.
func (s *Store) AddVirtualCurrency(amount int) (int, error) {
	if amount < 0 {
		return 0, invalid("currency amount must not be negative, got %d", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var balance int
	err := s.mutate(func(st *Snapshot) error {
		st.VirtualCurrency += amount
		balance = st.VirtualCurrency
		return nil
	})
	return balance, err
}

// UpdateCreatureHealth adds delta to the legacy creature health, clamped to
// [0,100], and returns the new value.
func (s *Store) UpdateCreatureHealth(delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var health int
	err := s.mutate(func(st *Snapshot) error {
		st.CreatureHealth = models.ClampStat(st.CreatureHealth + delta)
		health = st.CreatureHealth
		return nil
	})
	return health, err
}

// UpdateCreatureLevel sets the legacy creature level.
func (s *Store) UpdateCreatureLevel(level int) error {
	if level < 1 {
		return invalid("level must be at least 1, got %d", level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(st *Snapshot) error {
		st.CreatureLevel = level
		return nil
	})
}

// RedeemReward spends currency on a reward shop item.
func (s *Store) RedeemReward(code string) (*models.Redemption, error) {
	reward, ok := findReward(code)
	if !ok {
		return nil, fmt.Errorf("reward %q: %w", code, models.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var red models.Redemption
	err := s.mutate(func(st *Snapshot) error {
		if st.VirtualCurrency < reward.Cost {
			return fmt.Errorf("%s costs %d, balance %d: %w", reward.Name, reward.Cost, st.VirtualCurrency, ErrInsufficientFunds)
		}
		st.VirtualCurrency -= reward.Cost
		red = models.Redemption{Code: reward.Code, Cost: reward.Cost, RedeemedAt: s.timestamp()}
		st.Redemptions = append(st.Redemptions, red)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &red, nil
}
