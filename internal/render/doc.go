// Package render draws report charts and maps. PlotSurface writes PNG or SVG
// images with gonum/plot; GeoJSONSurface exports maps as FeatureCollections.
package render
