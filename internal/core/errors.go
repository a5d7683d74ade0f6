package core

import "launchcore/pkg/domain"

func notFoundGroup(id string) error {
	return domain.NotFoundError{Entity: domain.EntityGroup, ID: id}
}

func notFoundProject(id string) error {
	return domain.NotFoundError{Entity: domain.EntityProject, ID: id}
}

func notFound(entity domain.EntityType, id string) error {
	return domain.NotFoundError{Entity: entity, ID: id}
}
