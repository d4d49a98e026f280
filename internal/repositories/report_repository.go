package repositories

import (
	"database/sql"
	"fmt"

	"tap2serve_backend/internal/models"

	"github.com/lib/pq"
)

// revenueStatuses are the order statuses counted as realized revenue.
var revenueStatuses = []string{models.OrderStatusPaid, models.OrderStatusServed, models.OrderStatusCompleted}

// ReportRepository defines read-only aggregation queries over orders and
// platform entities. It never mutates state; every tenant-scoped query takes
// the restaurant id explicitly, mirroring the write path.
type ReportRepository interface {
	GetDashboardStats(restaurantID int64, branchID *int64) (*models.DashboardStats, error)
	GetDailyTrends(restaurantID int64, days int) ([]models.DailyTrend, error)
	GetStatusDistribution(restaurantID int64) ([]models.StatusCount, error)
	GetAdminStats() (*models.AdminStats, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetDashboardStats(restaurantID int64, branchID *int64) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	query := `SELECT
	            COUNT(*),
	            COALESCE(SUM(total) FILTER (WHERE status = ANY($2)), 0),
	            COUNT(*) FILTER (WHERE NOT (status = ANY($3)))
	          FROM orders
	          WHERE restaurant_id = $1`
	args := []interface{}{restaurantID, pq.Array(revenueStatuses),
		pq.Array(append(revenueStatuses, models.OrderStatusCancelled))}
	if branchID != nil {
		query += ` AND branch_id = $4`
		args = append(args, *branchID)
	}

	var activeOrders int
	err := r.db.QueryRow(query, args...).Scan(&stats.Orders, &stats.Revenue, &activeOrders)
	if err != nil {
		return nil, fmt.Errorf("%w: querying dashboard stats: %v", ErrDatabaseError, err)
	}
	// Estimating 2 guests per active table.
	stats.ActiveGuests = activeOrders * 2
	return stats, nil
}

func (r *reportRepository) GetDailyTrends(restaurantID int64, days int) ([]models.DailyTrend, error) {
	trends := []models.DailyTrend{}
	query := `SELECT to_char(created_at, 'YYYY-MM-DD') AS day,
	                 COALESCE(SUM(total), 0) AS daily_revenue,
	                 COUNT(*) AS order_count
	          FROM orders
	          WHERE restaurant_id = $1 AND status = ANY($2)
	          GROUP BY day
	          ORDER BY day DESC
	          LIMIT $3`
	rows, err := r.db.Query(query, restaurantID, pq.Array(revenueStatuses), days)
	if err != nil {
		return nil, fmt.Errorf("%w: querying daily trends: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.DailyTrend
		if err := rows.Scan(&t.Day, &t.DailyRevenue, &t.OrderCount); err != nil {
			return nil, fmt.Errorf("%w: scanning daily trend: %v", ErrDatabaseError, err)
		}
		trends = append(trends, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating daily trends: %v", ErrDatabaseError, err)
	}

	// Reverse into chronological order for the chart.
	for i, j := 0, len(trends)-1; i < j; i, j = i+1, j-1 {
		trends[i], trends[j] = trends[j], trends[i]
	}
	return trends, nil
}

func (r *reportRepository) GetStatusDistribution(restaurantID int64) ([]models.StatusCount, error) {
	counts := []models.StatusCount{}
	query := `SELECT status, COUNT(*)
	          FROM orders
	          WHERE restaurant_id = $1
	          GROUP BY status`
	rows, err := r.db.Query(query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying status distribution: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("%w: scanning status count: %v", ErrDatabaseError, err)
		}
		counts = append(counts, sc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating status counts: %v", ErrDatabaseError, err)
	}
	return counts, nil
}

func (r *reportRepository) GetAdminStats() (*models.AdminStats, error) {
	stats := &models.AdminStats{}
	query := `SELECT
	            (SELECT COUNT(*) FROM users),
	            (SELECT COUNT(DISTINCT restaurant_id) FROM users WHERE restaurant_id IS NOT NULL AND status = 'active'),
	            (SELECT COALESCE(SUM(total), 0) FROM orders WHERE status = ANY($1))`
	err := r.db.QueryRow(query, pq.Array(revenueStatuses)).Scan(
		&stats.TotalUsers, &stats.ActiveRestaurants, &stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying admin stats: %v", ErrDatabaseError, err)
	}
	return stats, nil
}
