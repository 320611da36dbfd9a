package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rebil-rentals/service-booking/internal/domain/booking"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds token verification settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker and consumer-group settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    DatabaseConfig
	JWTConfig   JWTConfig
	KafkaConfig KafkaConfig
	Quote       booking.QuoteConfig
	Policy      booking.PolicyConfig
}

// Load reads configuration from the environment with BOOKING_-prefixed
// keys, falling back to development defaults. The cancellation fee
// schedules ship with conservative defaults and are expected to be
// overridden from the marketplace's system of record.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service_port", ":8083")
	v.SetDefault("app_env", "development")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "rebil_booking")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("jwt.secret", "dev-secret-change-me")

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.group_prefix", "rebil.")

	v.SetDefault("quote.insurance_fee_per_day", 50000)
	v.SetDefault("quote.service_fee_percent", 10)
	v.SetDefault("quote.delivery_fee_flat", 100000)

	v.SetDefault("policy.deadline_offset_hours", 24)
	v.SetDefault("policy.pending_holds", false)
	v.SetDefault("policy.refund_tiers", `[{"min_days_before":7,"refund_percent":100},{"min_days_before":3,"refund_percent":50},{"min_days_before":0,"refund_percent":0}]`)
	v.SetDefault("policy.emergency_fees", `{"vehicle_breakdown":20,"accident":20,"safety_concern":0,"other":30}`)

	var tiers []booking.RefundTier
	if err := json.Unmarshal([]byte(v.GetString("policy.refund_tiers")), &tiers); err != nil {
		return nil, fmt.Errorf("invalid policy.refund_tiers: %w", err)
	}

	var emergencyFees map[booking.EmergencyReason]int64
	if err := json.Unmarshal([]byte(v.GetString("policy.emergency_fees")), &emergencyFees); err != nil {
		return nil, fmt.Errorf("invalid policy.emergency_fees: %w", err)
	}

	return &ServiceConfig{
		Port:   v.GetString("service_port"),
		AppEnv: v.GetString("app_env"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		JWTConfig: JWTConfig{
			Secret: v.GetString("jwt.secret"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(v.GetString("kafka.brokers"), ","),
			GroupPrefix: v.GetString("kafka.group_prefix"),
		},
		Quote: booking.QuoteConfig{
			InsuranceFeePerDay: v.GetInt64("quote.insurance_fee_per_day"),
			ServiceFeePercent:  v.GetInt64("quote.service_fee_percent"),
			DeliveryFeeFlat:    v.GetInt64("quote.delivery_fee_flat"),
		},
		Policy: booking.PolicyConfig{
			DeadlineOffset:      time.Duration(v.GetInt("policy.deadline_offset_hours")) * time.Hour,
			RefundTiers:         tiers,
			EmergencyFeePercent: emergencyFees,
			PendingHolds:        v.GetBool("policy.pending_holds"),
		},
	}, nil
}
