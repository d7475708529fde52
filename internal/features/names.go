package features

// Names lists the 51 feature names in contract order. The index of a name
// matches the index of its value in a synthesized Vector; the trainer's
// feature-importance diagnostic reports against these names.
var Names = [Width]string{
	// Base (8)
	"memory_strength", "difficulty", "time_since_review", "success_rate",
	"avg_response_time", "total_reviews", "consecutive_correct", "time_of_day",
	// Forgetting curve (5)
	"forgetting_curve", "adjusted_decay", "log_time_decay",
	"log_memory_strength", "decay_rate",
	// Interaction (10)
	"difficulty_time_product", "difficulty_memory_product",
	"success_memory_product", "success_time_product",
	"response_difficulty_product", "response_memory_product",
	"consecutive_memory_product", "consecutive_difficulty_ratio",
	"experience_success_product", "experience_difficulty_ratio",
	// Polynomial (9)
	"memory_strength_squared", "difficulty_squared", "time_squared",
	"success_rate_squared", "memory_strength_cubed", "sqrt_memory_strength",
	"sqrt_total_reviews", "inverse_memory_strength", "inverse_difficulty",
	// Cyclical time (5)
	"time_of_day_sin", "time_of_day_cos", "is_morning", "is_afternoon", "is_evening",
	// Moving average (5)
	"recent_success_rate", "recent_avg_response_time", "performance_trend",
	"interval_trend", "spacing_velocity",
	// Momentum (4)
	"learning_momentum", "streak_strength", "performance_acceleration", "mastery_level",
	// Retention (5)
	"stability", "retrievability", "learning_efficiency",
	"retention_probability", "optimal_interval_estimate",
}
