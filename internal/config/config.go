package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Motion   MotionConfig   `mapstructure:"motion"`
	Face     FaceConfig     `mapstructure:"face"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port             string `mapstructure:"port"`
	AdminKeyHash     string `mapstructure:"admin_key_hash"`
	SnapshotPollMs   int    `mapstructure:"snapshot_poll_ms"`
	SessionTTLMin    int    `mapstructure:"session_ttl_min"`
	SnapshotHistory  int    `mapstructure:"snapshot_history"`
	TaskProfilesPath string `mapstructure:"task_profiles_path"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// MotionConfig is the tuning surface for the motion analyzer. Every value here
// is an empirically chosen heuristic; the defaults are the values the analyzer
// was tuned with on handheld phone data.
type MotionConfig struct {
	FilterWindow         int     `mapstructure:"filter_window"`
	NoiseThreshold       float64 `mapstructure:"noise_threshold"`
	StationaryRunLength  int     `mapstructure:"stationary_run_length"`
	StationaryExitFactor float64 `mapstructure:"stationary_exit_factor"`
	MeaningfulThreshold  float64 `mapstructure:"meaningful_threshold"`
	MediumThreshold      float64 `mapstructure:"medium_threshold"`
	LargeThreshold       float64 `mapstructure:"large_threshold"`
	SuddenThreshold      float64 `mapstructure:"sudden_threshold"`
	RestlessQuietMs      int     `mapstructure:"restless_quiet_ms"`
	DirectionDebounceMs  int     `mapstructure:"direction_debounce_ms"`
	SuddenDebounceMs     int     `mapstructure:"sudden_debounce_ms"`
	MaxDirectionChanges  int     `mapstructure:"max_direction_changes"`
	MaxSuddenMovements   int     `mapstructure:"max_sudden_movements"`
	PatternWindowMs      int     `mapstructure:"pattern_window_ms"`
	ReversalWindowMs     int     `mapstructure:"reversal_window_ms"`
	ReversalDotThreshold float64 `mapstructure:"reversal_dot_threshold"`
	ReversalMinCount     int     `mapstructure:"reversal_min_count"`
	PatternCosineMin     float64 `mapstructure:"pattern_cosine_min"`
	PatternPairMin       int     `mapstructure:"pattern_pair_min"`
	AlternationMinCycles int     `mapstructure:"alternation_min_cycles"`
	FidgetEvidenceQuorum int     `mapstructure:"fidget_evidence_quorum"`
	SampleBufferSize     int     `mapstructure:"sample_buffer_size"`
	GyroIntensityWeight  float64 `mapstructure:"gyro_intensity_weight"`
	LargeIntensityWeight float64 `mapstructure:"large_intensity_weight"`
	ExpectedSampleRateHz float64 `mapstructure:"expected_sample_rate_hz"`
}

// FaceConfig is the tuning surface for the face analyzer.
type FaceConfig struct {
	MinFaceBoxPx         float64 `mapstructure:"min_face_box_px"`
	YawLimitDeg          float64 `mapstructure:"yaw_limit_deg"`
	PitchLimitDeg        float64 `mapstructure:"pitch_limit_deg"`
	EyeClosedProb        float64 `mapstructure:"eye_closed_prob"`
	BlinkMinMs           int     `mapstructure:"blink_min_ms"`
	BlinkMaxMs           int     `mapstructure:"blink_max_ms"`
	BlinkRefractoryMs    int     `mapstructure:"blink_refractory_ms"`
	EmotionDebounceMs    int     `mapstructure:"emotion_debounce_ms"`
	EmotionMinDelta      float64 `mapstructure:"emotion_min_delta"`
	MaxEmotionChanges    int     `mapstructure:"max_emotion_changes"`
	BlinkBurstCount      int     `mapstructure:"blink_burst_count"`
	BlinkBurstWindowMs   int     `mapstructure:"blink_burst_window_ms"`
	ExpressionJumpDelta  float64 `mapstructure:"expression_jump_delta"`
	PositionJumpFraction float64 `mapstructure:"position_jump_fraction"`
}

// ScoringConfig holds the composite scoring weights. These are heuristic and
// pending validation data, hence configuration rather than constants.
type ScoringConfig struct {
	Attention     AttentionWeights     `mapstructure:"attention"`
	Hyperactivity HyperactivityWeights `mapstructure:"hyperactivity"`
	Impulsivity   ImpulsivityWeights   `mapstructure:"impulsivity"`
	Overall       OverallWeights       `mapstructure:"overall"`
}

type AttentionWeights struct {
	Inaccuracy      float64 `mapstructure:"inaccuracy"`
	MissRate        float64 `mapstructure:"miss_rate"`
	RTVariability   float64 `mapstructure:"rt_variability"`
	SustainedLoss   float64 `mapstructure:"sustained_loss"`
	Distractibility float64 `mapstructure:"distractibility"`
}

type HyperactivityWeights struct {
	Restlessness    float64 `mapstructure:"restlessness"`
	GeneralMovement float64 `mapstructure:"general_movement"`
	Fidgeting       float64 `mapstructure:"fidgeting"`
	FacialMovement  float64 `mapstructure:"facial_movement"`
}

type ImpulsivityWeights struct {
	CommissionRate float64 `mapstructure:"commission_rate"`
	PrematureRate  float64 `mapstructure:"premature_rate"`
	FastErrorSkew  float64 `mapstructure:"fast_error_skew"`
}

type OverallWeights struct {
	Attention     float64 `mapstructure:"attention"`
	Hyperactivity float64 `mapstructure:"hyperactivity"`
	Impulsivity   float64 `mapstructure:"impulsivity"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5060")
	v.SetDefault("server.admin_key_hash", "")
	v.SetDefault("server.snapshot_poll_ms", 1000)
	v.SetDefault("server.session_ttl_min", 30)
	v.SetDefault("server.snapshot_history", 300)
	v.SetDefault("server.task_profiles_path", "config/tasks.yaml")

	// Database defaults
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "recognicam-db")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Motion analyzer tuning
	v.SetDefault("motion.filter_window", 7)
	v.SetDefault("motion.noise_threshold", 0.08)
	v.SetDefault("motion.stationary_run_length", 20)
	v.SetDefault("motion.stationary_exit_factor", 1.5)
	v.SetDefault("motion.meaningful_threshold", 0.15)
	v.SetDefault("motion.medium_threshold", 0.9)
	v.SetDefault("motion.large_threshold", 1.8)
	v.SetDefault("motion.sudden_threshold", 2.5)
	v.SetDefault("motion.restless_quiet_ms", 500)
	v.SetDefault("motion.direction_debounce_ms", 200)
	v.SetDefault("motion.sudden_debounce_ms", 400)
	v.SetDefault("motion.max_direction_changes", 200)
	v.SetDefault("motion.max_sudden_movements", 60)
	v.SetDefault("motion.pattern_window_ms", 2000)
	v.SetDefault("motion.reversal_window_ms", 1500)
	v.SetDefault("motion.reversal_dot_threshold", -0.3)
	v.SetDefault("motion.reversal_min_count", 3)
	v.SetDefault("motion.pattern_cosine_min", 0.85)
	v.SetDefault("motion.pattern_pair_min", 3)
	v.SetDefault("motion.alternation_min_cycles", 2)
	v.SetDefault("motion.fidget_evidence_quorum", 2)
	v.SetDefault("motion.sample_buffer_size", 120)
	v.SetDefault("motion.gyro_intensity_weight", 0.3)
	v.SetDefault("motion.large_intensity_weight", 1.5)
	v.SetDefault("motion.expected_sample_rate_hz", 50)

	// Face analyzer tuning
	v.SetDefault("face.min_face_box_px", 80)
	v.SetDefault("face.yaw_limit_deg", 25)
	v.SetDefault("face.pitch_limit_deg", 20)
	v.SetDefault("face.eye_closed_prob", 0.35)
	v.SetDefault("face.blink_min_ms", 40)
	v.SetDefault("face.blink_max_ms", 500)
	v.SetDefault("face.blink_refractory_ms", 150)
	v.SetDefault("face.emotion_debounce_ms", 700)
	v.SetDefault("face.emotion_min_delta", 0.25)
	v.SetDefault("face.max_emotion_changes", 120)
	v.SetDefault("face.blink_burst_count", 3)
	v.SetDefault("face.blink_burst_window_ms", 2000)
	v.SetDefault("face.expression_jump_delta", 0.5)
	v.SetDefault("face.position_jump_fraction", 0.25)

	// Scoring weights
	v.SetDefault("scoring.attention.inaccuracy", 0.35)
	v.SetDefault("scoring.attention.miss_rate", 0.20)
	v.SetDefault("scoring.attention.rt_variability", 0.15)
	v.SetDefault("scoring.attention.sustained_loss", 0.15)
	v.SetDefault("scoring.attention.distractibility", 0.15)
	v.SetDefault("scoring.hyperactivity.restlessness", 0.40)
	v.SetDefault("scoring.hyperactivity.general_movement", 0.30)
	v.SetDefault("scoring.hyperactivity.fidgeting", 0.15)
	v.SetDefault("scoring.hyperactivity.facial_movement", 0.15)
	v.SetDefault("scoring.impulsivity.commission_rate", 0.45)
	v.SetDefault("scoring.impulsivity.premature_rate", 0.30)
	v.SetDefault("scoring.impulsivity.fast_error_skew", 0.25)
	v.SetDefault("scoring.overall.attention", 0.40)
	v.SetDefault("scoring.overall.hyperactivity", 0.35)
	v.SetDefault("scoring.overall.impulsivity", 0.25)
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("RECOGNICAM") // e.g., RECOGNICAM_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading. The
	// analyzer thresholds are the primary tuning surface, so reloads matter.
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}

// Default returns a Config populated with all default values, without touching
// the filesystem or environment. Used by tests and by analyzers constructed
// before Init has run.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		// Defaults always decode; a failure here is a programming error.
		panic(err)
	}
	return &c
}
