package main

import (
	"github.com/google/uuid"
)

// Site store. Reports reference sites with ON DELETE CASCADE, so
// deleting a site takes its report history with it.

func listSites(ownerID string) ([]Site, error) {
	rows, err := db.Query(`
        SELECT id, name, user_id, created_at::text
        FROM sites
        WHERE user_id = $1
        ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []Site
	for rows.Next() {
		var site Site
		if err := rows.Scan(&site.ID, &site.Name, &site.UserID, &site.CreatedAt); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func createSite(name, ownerID string) (Site, error) {
	site := Site{ID: uuid.NewString(), Name: name, UserID: ownerID}
	err := db.QueryRow(`
        INSERT INTO sites (id, name, user_id)
        VALUES ($1, $2, $3)
        RETURNING created_at::text`,
		site.ID, site.Name, site.UserID).Scan(&site.CreatedAt)
	if err != nil {
		return Site{}, err
	}
	return site, nil
}

// deleteSite removes a site only when it belongs to ownerID. Returns
// whether a row was deleted, so a miss and another user's site are
// indistinguishable to the caller.
func deleteSite(id, ownerID string) (bool, error) {
	res, err := db.Exec("DELETE FROM sites WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func siteOwned(id, ownerID string) (bool, error) {
	var owned bool
	err := db.QueryRow(`
        SELECT EXISTS (SELECT 1 FROM sites WHERE id = $1 AND user_id = $2)`,
		id, ownerID).Scan(&owned)
	return owned, err
}
