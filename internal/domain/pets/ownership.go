package pets

import "context"

// OwnerOf expone el ownerID de una mascota.
// Lo usan los handlers para decidir si muestran acciones de edición.
func (s *Service) OwnerOf(ctx context.Context, petID int64) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}
