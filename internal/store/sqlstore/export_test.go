package sqlstore

import "context"

func ForceSchemaVersion(ctx context.Context, s *Store, version int) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE schema_version SET version = ?"), version)
	return err
}

func Truncate(ctx context.Context, s *Store) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM games")
	return err
}

func SetRawHonors(ctx context.Context, s *Store, id int64, raw string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE games SET honors = ? WHERE bgg_id = ?"), raw, id)
	return err
}
