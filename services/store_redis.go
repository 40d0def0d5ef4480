package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"task-earn-system/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis hash field names. These mirror the fixed per-browser storage keys
// the earliest clients used, so an export of either store reads the same.
const (
	fieldID             = "id"
	fieldUsername       = "username"
	fieldAvatar         = "avatar"
	fieldBalance        = "user_balance"
	fieldTotalEarned    = "total_earned"
	fieldTasksCompleted = "tasks_completed"
	fieldLevel          = "level"
	fieldReferralCode   = "referral_code"
	fieldCongratulated  = "congratulated"
	fieldHasGivenReward = "has_given_reward"
	fieldJoinedAt       = "joined_at"
)

// RedisProfileStore keeps each profile in a single hash under
// profile:<user_id>, plus a refcode:<code> pointer for referral lookups.
type RedisProfileStore struct {
	Client *redis.Client
}

func NewRedisProfileStore(client *redis.Client) *RedisProfileStore {
	return &RedisProfileStore{Client: client}
}

func profileKey(userID string) string { return "profile:" + userID }
func refcodeKey(code string) string   { return "refcode:" + code }

func (s *RedisProfileStore) Load(ctx context.Context, userID string) (*models.Profile, error) {
	vals, err := s.Client.HGetAll(ctx, profileKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrProfileNotFound
	}
	return profileFromHash(userID, vals), nil
}

func (s *RedisProfileStore) Create(ctx context.Context, userID string) (*models.Profile, error) {
	key := profileKey(userID)
	exists, err := s.Client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return s.Load(ctx, userID)
	}

	prof := &models.Profile{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		Username:       "Web3 User",
		Level:          1,
		ReferralCode:   newReferralCode("Web3 User"),
		JoinedAt:       time.Now(),
	}

	pipe := s.Client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		fieldID:             prof.ID,
		fieldUsername:       prof.Username,
		fieldBalance:        "0",
		fieldTotalEarned:    "0",
		fieldTasksCompleted: "0",
		fieldLevel:          strconv.Itoa(prof.Level),
		fieldReferralCode:   prof.ReferralCode,
		fieldCongratulated:  "false",
		fieldHasGivenReward: "false",
		fieldJoinedAt:       prof.JoinedAt.Format(time.RFC3339),
	})
	pipe.Set(ctx, refcodeKey(prof.ReferralCode), userID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return prof, nil
}

func (s *RedisProfileStore) FindByReferralCode(ctx context.Context, code string) (*models.Profile, error) {
	userID, err := s.Client.Get(ctx, refcodeKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, userID)
}

func (s *RedisProfileStore) ApplyBalanceCredit(ctx context.Context, userID string, amount float64) error {
	key := profileKey(userID)
	if err := s.requireProfile(ctx, key); err != nil {
		return err
	}
	pipe := s.Client.TxPipeline()
	pipe.HIncrByFloat(ctx, key, fieldBalance, amount)
	pipe.HIncrByFloat(ctx, key, fieldTotalEarned, amount)
	_, err := pipe.Exec(ctx)
	return err
}

// ApplyWithdrawal uses WATCH so the balance check and the decrement are
// atomic against concurrent credits.
func (s *RedisProfileStore) ApplyWithdrawal(ctx context.Context, userID string, amount float64) error {
	key := profileKey(userID)
	return s.Client.Watch(ctx, func(tx *redis.Tx) error {
		balStr, err := tx.HGet(ctx, key, fieldBalance).Result()
		if errors.Is(err, redis.Nil) {
			return ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		bal, err := strconv.ParseFloat(balStr, 64)
		if err != nil {
			return fmt.Errorf("corrupt balance for %s: %w", userID, err)
		}
		if bal < amount {
			return ErrInsufficientBalance
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HIncrByFloat(ctx, key, fieldBalance, -amount)
			return nil
		})
		return err
	}, key)
}

func (s *RedisProfileStore) SetTasksCompletedCount(ctx context.Context, userID string, count int) error {
	key := profileKey(userID)
	if err := s.requireProfile(ctx, key); err != nil {
		return err
	}
	return s.Client.HSet(ctx, key, fieldTasksCompleted, strconv.Itoa(count)).Err()
}

func (s *RedisProfileStore) UpdateDisplayFields(ctx context.Context, userID string, fields DisplayFields) error {
	if err := validateDisplayFields(fields); err != nil {
		return err
	}
	key := profileKey(userID)
	if err := s.requireProfile(ctx, key); err != nil {
		return err
	}
	updates := map[string]interface{}{}
	if fields.Username != nil {
		updates[fieldUsername] = *fields.Username
	}
	if fields.Avatar != nil {
		updates[fieldAvatar] = *fields.Avatar
	}
	if len(updates) == 0 {
		return nil
	}
	return s.Client.HSet(ctx, key, updates).Err()
}

func (s *RedisProfileStore) SetOnboardingGranted(ctx context.Context, userID string) error {
	key := profileKey(userID)
	if err := s.requireProfile(ctx, key); err != nil {
		return err
	}
	return s.Client.HSet(ctx, key,
		fieldCongratulated, "true",
		fieldHasGivenReward, "true",
	).Err()
}

func (s *RedisProfileStore) requireProfile(ctx context.Context, key string) error {
	exists, err := s.Client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func profileFromHash(userID string, vals map[string]string) *models.Profile {
	prof := &models.Profile{
		ID:             vals[fieldID],
		ExternalUserID: userID,
		Username:       vals[fieldUsername],
		ReferralCode:   vals[fieldReferralCode],
		Level:          1,
	}
	if v := vals[fieldAvatar]; v != "" {
		prof.Avatar = &v
	}
	prof.Balance, _ = strconv.ParseFloat(vals[fieldBalance], 64)
	prof.TotalEarned, _ = strconv.ParseFloat(vals[fieldTotalEarned], 64)
	prof.TasksCompleted, _ = strconv.Atoi(vals[fieldTasksCompleted])
	if lvl, err := strconv.Atoi(vals[fieldLevel]); err == nil && lvl > 0 {
		prof.Level = lvl
	}
	prof.Congratulated = vals[fieldCongratulated] == "true"
	prof.HasGivenReward = vals[fieldHasGivenReward] == "true"
	if t, err := time.Parse(time.RFC3339, vals[fieldJoinedAt]); err == nil {
		prof.JoinedAt = t
	}
	return prof
}
