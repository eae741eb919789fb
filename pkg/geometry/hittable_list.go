package geometry

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// HittableList is an ordered collection of shapes tested with a single linear pass
type HittableList struct {
	Objects []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(objects ...Shape) *HittableList {
	return &HittableList{Objects: objects}
}

// Add appends a shape to the list
func (l *HittableList) Add(shape Shape) {
	l.Objects = append(l.Objects, shape)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Objects)
}

// Hit returns the closest intersection among all shapes.
// The upper bound shrinks to each accepted hit, so later shapes can only replace it with a closer one.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Objects {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
