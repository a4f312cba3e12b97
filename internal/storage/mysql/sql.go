package mysql

import "travel_planner/internal/domain"

// -----------------------------------------------------------------------------
// VIEW STRATEGIES
// -----------------------------------------------------------------------------

// Current calendar month by the database clock: [1st of month, 1st of next month).
const monthWindow = `
  v.viewed_at >= CAST(DATE_FORMAT(CURRENT_DATE, '%Y-%m-01') AS DATE)
  AND v.viewed_at < CAST(DATE_FORMAT(CURRENT_DATE + INTERVAL 1 MONTH, '%Y-%m-01') AS DATE)`

const monthlyViewsJoin = `
LEFT JOIN (
  SELECT v.destination_id, SUM(v.` + "`count`" + `) AS views
  FROM views v
  WHERE` + monthWindow + `
  GROUP BY v.destination_id
) mv ON mv.destination_id = d.id`

const destinationColumns = `
  d.id,
  d.name,
  d.description,
  d.image,
  d.rating,
  d.tagline,
  d.attractions,
  d.cuisine,
  d.trip_info`

// queries holds the statements whose shape depends on the view strategy.
type queries struct {
	listDestinations string
	getDestination   string
	listSaved        string
	currentViews     string
	appendView       string
}

func queriesFor(mode domain.ViewMode) queries {
	viewsExpr, viewsJoin := "d.views", ""
	if mode == domain.ViewsEvents {
		viewsExpr, viewsJoin = "COALESCE(mv.views, 0)", monthlyViewsJoin
	}
	selectDest := "SELECT" + destinationColumns + ",\n  " + viewsExpr + " AS views\nFROM destinations d" + viewsJoin

	q := queries{
		listDestinations: selectDest + "\nORDER BY views DESC, d.rating DESC, d.id",
		getDestination:   selectDest + "\nWHERE d.id = ?",
		listSaved: "SELECT\n  ut.id AS trip_id,\n  ut.date_added," + destinationColumns + ",\n  " + viewsExpr + ` AS views
FROM user_trips ut
JOIN destinations d ON d.id = ut.destination_id` + viewsJoin + `
WHERE ut.user_id = ?
ORDER BY ut.id DESC`,
	}
	if mode == domain.ViewsEvents {
		q.currentViews = "SELECT COALESCE(SUM(v.`count`), 0) FROM views v WHERE v.destination_id = ? AND" + monthWindow
		q.appendView = "INSERT INTO views (destination_id, `count`, viewed_at) VALUES (?, 1, CURRENT_TIMESTAMP)"
	} else {
		q.currentViews = `SELECT views FROM destinations WHERE id = ?`
		q.appendView = `UPDATE destinations SET views = COALESCE(views, 0) + 1 WHERE id = ?`
	}
	return q
}

const detectViewsTableSQL = `
SELECT COUNT(*)
FROM information_schema.tables
WHERE table_schema = DATABASE() AND table_name = 'views'
`

// -----------------------------------------------------------------------------
// DESTINATIONS
// -----------------------------------------------------------------------------

const destinationExistsSQL = `SELECT EXISTS(SELECT 1 FROM destinations WHERE id = ?)`

// Seeding never touches the counter column.
const upsertDestinationSQL = `
INSERT INTO destinations
  (id, name, description, image, rating, tagline, attractions, cuisine, trip_info)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  description = VALUES(description),
  image       = VALUES(image),
  rating      = VALUES(rating),
  tagline     = VALUES(tagline),
  attractions = VALUES(attractions),
  cuisine     = VALUES(cuisine),
  trip_info   = VALUES(trip_info),
  updated_at  = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// SAVED TRIPS
// -----------------------------------------------------------------------------

const insertSavedSQL = `INSERT INTO user_trips (destination_id, user_id) VALUES (?, ?)`

const getSavedSQL = `
SELECT id, destination_id, user_id, date_added
FROM user_trips
WHERE id = ?
`

const deleteSavedSQL = `DELETE FROM user_trips WHERE destination_id = ? AND user_id = ?`

// -----------------------------------------------------------------------------
// PLANNED TRIPS
// -----------------------------------------------------------------------------

const plannedColumns = `id, title, departure_date, return_date, status, destinations, user_id`

const listPlannedSQL = `
SELECT ` + plannedColumns + `
FROM planned_trips
WHERE user_id = ?
ORDER BY id DESC
`

const getPlannedSQL = `
SELECT ` + plannedColumns + `
FROM planned_trips
WHERE id = ? AND user_id = ?
`

const insertPlannedSQL = `
INSERT INTO planned_trips
  (title, departure_date, return_date, status, destinations, user_id)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const updatePlannedSQL = `
UPDATE planned_trips
SET title = ?, departure_date = ?, return_date = ?, status = ?, destinations = ?
WHERE id = ? AND user_id = ?
`

const deletePlannedSQL = `DELETE FROM planned_trips WHERE id = ? AND user_id = ?`
