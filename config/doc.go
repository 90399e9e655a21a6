// SPDX-License-Identifier: MIT

// Package config loads the YAML run configuration of the skims command.
//
// A file has four sections:
//
//	paths:
//	  path_gtfs: ./feed.zip
//	  path_outputs: ./out
//	  path_origins: ./centroids.csv
//	  path_destinations: ./centroids.csv
//	settings:
//	  calendar_date: 20190515
//	  start_s: 32400
//	  end_s: 41400
//	  walk_distance_threshold: 2000
//	  walk_speed: 4.5
//	  crows_fly_factor: 1.3
//	  max_transfer_time: 1800
//	  max_wait: 1800
//	  weight_walk: 2
//	  weight_wait: 3
//	  penalty_interchange: 600
//	logging:
//	  level: info
//	steps: [preprocessing, connectors, graph]
//
// Missing settings keep the values of Defaults. Files are decoded with
// gopkg.in/yaml.v3 and checked with go-playground/validator struct tags;
// SKIMS_LOG_LEVEL and SKIMS_LOG_FORMAT override the logging section.
package config
