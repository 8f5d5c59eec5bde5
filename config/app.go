package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yoockh/coldreach/internal/models"
)

// Config holds application configuration.
type Config struct {
	Port string

	SessionSecret string
	SessionTTL    time.Duration

	ProfilePath      string
	PortfolioPath    string
	PortfolioResults int

	LLMProvider    string
	LLMModel       string
	LLMBaseURL     string
	GroqAPIKey     string
	OpenAIAPIKey   string
	GeminiAPIKey   string
	VertexProject  string
	VertexLocation string

	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingDims     int

	DraftStore string
	DraftDir   string
	GCSBucket  string
	S3Bucket   string
	S3Prefix   string
	AWSRegion  string

	FetchUserAgent string
	FetchTimeout   time.Duration

	MongoDB string

	// DefaultProfile is used whenever no profile file has been saved.
	DefaultProfile models.Profile
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	// best effort; real env wins
	_ = godotenv.Load()

	def := models.WithPreferenceDefaults()
	def.SenderName = getEnv("SENDER_NAME", "Your Name")
	def.SenderTitle = getEnv("SENDER_TITLE", "Business Development Executive")
	def.CompanyName = getEnv("COMPANY_NAME", "Your Company")
	def.CompanyType = getEnv("COMPANY_TYPE", "AI & Software Consulting")
	def.CompanyDescription = getEnv("COMPANY_DESCRIPTION",
		"We are dedicated to facilitating the seamless integration of business processes through automated tools.")
	def.CompanyAchievements = getEnv("COMPANY_ACHIEVEMENTS",
		"Over our experience, we have empowered numerous enterprises with tailored solutions, fostering scalability, process optimization, cost reduction, and heightened overall efficiency.")
	def.EmailTone = strings.ToLower(getEnv("EMAIL_TONE", models.ToneProfessional))
	def.SignatureStyle = strings.ToLower(getEnv("SIGNATURE_STYLE", models.SignatureStandard))

	return Config{
		Port: getEnv("PORT", "8080"),

		SessionSecret: getEnv("SESSION_SECRET", "coldreach-dev-secret"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),

		ProfilePath:      getEnv("PROFILE_PATH", "user_config.json"),
		PortfolioPath:    getEnv("PORTFOLIO_PATH", "app/resource/my_portfolio.csv"),
		PortfolioResults: getInt("PORTFOLIO_RESULTS", 2),

		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", "groq")),
		LLMModel:       getEnv("LLM_MODEL", ""),
		LLMBaseURL:     getEnv("LLM_BASE_URL", ""),
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		VertexProject:  getEnv("VERTEX_PROJECT", ""),
		VertexLocation: getEnv("VERTEX_LOCATION", "us-central1"),

		EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", "hash")),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
		EmbeddingDims:     getInt("EMBEDDING_DIMS", 256),

		DraftStore: strings.ToLower(getEnv("DRAFT_STORE", "local")),
		DraftDir:   getEnv("DRAFT_DIR", "drafts"),
		GCSBucket:  getEnv("GCS_BUCKET", ""),
		S3Bucket:   getEnv("S3_BUCKET", ""),
		S3Prefix:   getEnv("S3_PREFIX", ""),
		AWSRegion:  getEnv("AWS_REGION", ""),

		FetchUserAgent: getEnv("FETCH_USER_AGENT", "Mozilla/5.0 (compatible; coldreach/1.0)"),
		FetchTimeout:   getDuration("FETCH_TIMEOUT", 30*time.Second),

		MongoDB: getEnv("MONGO_DB", "coldreach"),

		DefaultProfile: def,
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
