package core

import (
	"context"

	"launchcore/pkg/domain"
)

// AddFile stores file metadata on the project. The core never holds the
// file bytes; Path is an opaque storage location.
func (s *Service) AddFile(ctx context.Context, projectID string, file FileAsset) (FileAsset, error) {
	if err := requireName("name", file.Name); err != nil {
		return FileAsset{}, err
	}
	file.ID = newID()
	if file.UploadedAt.IsZero() {
		file.UploadedAt = s.now()
	}
	_, err := s.mutateProject(ctx, "file.create", projectID, "file attached: "+file.Name, nil, func(p *Project) error {
		p.Files = append(p.Files, file)
		return nil
	})
	if err != nil {
		return FileAsset{}, err
	}
	return file, nil
}

// UpdateFile mutates file metadata.
func (s *Service) UpdateFile(ctx context.Context, projectID, fileID string, mutator func(*FileAsset) error) (FileAsset, error) {
	var updated FileAsset
	_, err := s.mutateProject(ctx, "file.update", projectID, "file updated", nil, func(p *Project) error {
		for i := range p.Files {
			if p.Files[i].ID != fileID {
				continue
			}
			if err := mutator(&p.Files[i]); err != nil {
				return err
			}
			p.Files[i].ID = fileID
			if err := requireName("name", p.Files[i].Name); err != nil {
				return err
			}
			updated = p.Files[i]
			return nil
		}
		return notFound(domain.EntityFile, fileID)
	})
	if err != nil {
		return FileAsset{}, err
	}
	return updated, nil
}

// DeleteFile removes file metadata from the project.
func (s *Service) DeleteFile(ctx context.Context, projectID, fileID string) error {
	_, err := s.mutateProject(ctx, "file.delete", projectID, "file removed", nil, func(p *Project) error {
		for i := range p.Files {
			if p.Files[i].ID == fileID {
				p.Files = append(p.Files[:i], p.Files[i+1:]...)
				return nil
			}
		}
		return notFound(domain.EntityFile, fileID)
	})
	return err
}

// ListFiles returns the project's file attachments.
func (s *Service) ListFiles(projectID string) ([]FileAsset, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	return p.Files, nil
}

// normalizeCover clears the cover flag from every image except keepID so at
// most one image per project is the cover.
func normalizeCover(p *Project, keepID string) {
	for i := range p.Images {
		if p.Images[i].ID != keepID && p.Images[i].IsCover {
			p.Images[i].IsCover = false
		}
	}
}

// AddImage stores image metadata on the project. If the new image is marked
// as cover the flag is removed from every other image.
func (s *Service) AddImage(ctx context.Context, projectID string, image ImageAsset) (ImageAsset, error) {
	if err := requireName("filename", image.Filename); err != nil {
		return ImageAsset{}, err
	}
	image.ID = newID()
	if image.UploadedAt.IsZero() {
		image.UploadedAt = s.now()
	}
	_, err := s.mutateProject(ctx, "image.create", projectID, "image attached: "+image.Filename, nil, func(p *Project) error {
		orders := make([]int, len(p.Images))
		for i, img := range p.Images {
			orders[i] = img.Order
		}
		image.Order = applyOrder(image.Order, orders)
		p.Images = append(p.Images, image)
		if image.IsCover {
			normalizeCover(p, image.ID)
		}
		return nil
	})
	if err != nil {
		return ImageAsset{}, err
	}
	return image, nil
}

// UpdateImage mutates image metadata, keeping the single-cover invariant.
func (s *Service) UpdateImage(ctx context.Context, projectID, imageID string, mutator func(*ImageAsset) error) (ImageAsset, error) {
	var updated ImageAsset
	_, err := s.mutateProject(ctx, "image.update", projectID, "image updated", nil, func(p *Project) error {
		for i := range p.Images {
			if p.Images[i].ID != imageID {
				continue
			}
			if err := mutator(&p.Images[i]); err != nil {
				return err
			}
			p.Images[i].ID = imageID
			if p.Images[i].IsCover {
				normalizeCover(p, imageID)
			}
			updated = p.Images[i]
			return nil
		}
		return notFound(domain.EntityImage, imageID)
	})
	if err != nil {
		return ImageAsset{}, err
	}
	return updated, nil
}

// DeleteImage removes image metadata from the project.
func (s *Service) DeleteImage(ctx context.Context, projectID, imageID string) error {
	_, err := s.mutateProject(ctx, "image.delete", projectID, "image removed", nil, func(p *Project) error {
		for i := range p.Images {
			if p.Images[i].ID == imageID {
				p.Images = append(p.Images[:i], p.Images[i+1:]...)
				return nil
			}
		}
		return notFound(domain.EntityImage, imageID)
	})
	return err
}

// ReorderImages rewrites image ordering to follow ids.
func (s *Service) ReorderImages(ctx context.Context, projectID string, ids []string) (Project, error) {
	return s.mutateProject(ctx, "image.reorder", projectID, "images reordered", nil, func(p *Project) error {
		return reorderByIDs(p.Images, ids, domain.EntityImage,
			func(img ImageAsset) string { return img.ID },
			func(img *ImageAsset, order int) { img.Order = order })
	})
}

// ListImages returns the project's image attachments.
func (s *Service) ListImages(projectID string) ([]ImageAsset, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	return p.Images, nil
}
