/*
This package contains lowish-level APIs for making database queries to our Postgres database. It streamlines the process of mapping query results to Go types, while allowing you to write arbitrary SQL queries.

The primary functions are Query and QueryIterator. See the package and function examples for detailed usage.

# Query syntax

This package allows a few small extensions to SQL syntax to streamline the interaction between Go and Postgres.

Arguments can be provided using placeholders like $1, $2, etc. All arguments will be safely escaped and mapped from their Go type to the correct Postgres type. (This is a direct proxy to pgx.)

	mediaIDs, err := db.Query[int](ctx, conn,
		`
		SELECT id
		FROM media
		WHERE
			kind = ANY($1)
			AND owner_id = $2
		`,
		[]string{"video", "audio"},
		currentUserID,
	)

(This also demonstrates a useful tip: if you want to use a slice in your query, use Postgres arrays instead of IN.)

When querying individual fields, you can simply select the field like so:

	ids, err := db.Query[int](ctx, conn, `SELECT id FROM media`)

To query multiple columns at once, you may use a struct type with `db:"column_name"` tags, and the special $columns placeholder:

	type Media struct {
		ID        int       `db:"id"`
		Title     string    `db:"title"`
		CreatedAt time.Time `db:"created_at"`
	}
	items, err := db.Query[Media](ctx, conn, `SELECT $columns FROM ...`)
	// Resulting query:
	// SELECT id, title, created_at FROM ...

Sometimes a table name prefix is required on each column to disambiguate between column names, especially when performing a JOIN. In those situations, you can include the prefix in the $columns placeholder like $columns{prefix}:

	type Media struct {
		ID        int       `db:"id"`
		Title     string    `db:"title"`
		CreatedAt time.Time `db:"created_at"`
	}
	untagged, err := db.Query[Media](ctx, conn, `
		SELECT $columns{media}
		FROM
			media
			LEFT JOIN media_tags ON media_tags.media_id = media.id
		WHERE
			media_tags.tag_id IS NULL
	`)
	// Resulting query:
	// SELECT media.id, media.title, media.created_at FROM ...
*/
package db
