package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and policy coefficients.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	BcryptCost     int    // bcrypt cost for password hashing

	// Trust score policy.  The coefficients are tunable; the hosting
	// threshold and the [0,100] clamp are fixed parts of the contract.
	TrustBaseline      int // starting score for a user with no history
	TrustHostedBonus   int // points per completed hosted event
	TrustAttendedBonus int // points per attended outcome
	TrustNoShowPenalty int // points lost per no_show outcome
	TrustMinToHost     int // minimum score required to host events

	// Referral policy.
	ReferralBonusPoints int // points credited to the referrer per awarded referral
	ReferralMaxAwards   int // awarded referrals after which no further bonus is paid

	// Event policy.
	ConfirmLeadDays int  // confirmation deadline = event date minus this many days
	RSVPAutoConfirm bool // when true, submitted RSVPs skip pending and land confirmed
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Policy values are
// optional and fall back to their defaults when unset.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),                   // environment (dev/test/prod)
		Port:           must("APP_PORT"),                  // port to bind the HTTP server
		DBUser:         must("DB_USER"),                   // database user
		DBPass:         os.Getenv("DB_PASS"),              // database password (empty allowed)
		DBHost:         must("DB_HOST"),                   // database host
		DBPort:         must("DB_PORT"),                   // database port
		DBName:         must("DB_NAME"),                   // database name
		JWTSecret:      must("JWT_SECRET"),                // secret used for signing JWTs
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:     mustInt("BCRYPT_COST"),            // bcrypt cost factor

		TrustBaseline:      envInt("TRUST_BASELINE", 50),
		TrustHostedBonus:   envInt("TRUST_HOSTED_BONUS", 10),
		TrustAttendedBonus: envInt("TRUST_ATTENDED_BONUS", 10),
		TrustNoShowPenalty: envInt("TRUST_NO_SHOW_PENALTY", 25),
		TrustMinToHost:     envInt("TRUST_MIN_TO_HOST", 50),

		ReferralBonusPoints: envInt("REFERRAL_BONUS_POINTS", 100),
		ReferralMaxAwards:   envInt("REFERRAL_MAX_AWARDS", 5),

		ConfirmLeadDays: envInt("CONFIRM_LEAD_DAYS", 3),
		RSVPAutoConfirm: envBool("RSVP_AUTO_CONFIRM", false),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
