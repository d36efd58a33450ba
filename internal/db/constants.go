package db

// SQL query fragments used across multiple functions
const (
	// sqlLineColumns is the column list of production line reads.
	sqlLineColumns = "id, plant_name, description"

	// sqlTimestamp is the layout of updated_at values.
	sqlTimestamp = "2006-01-02 15:04:05"
)
