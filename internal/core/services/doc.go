// Package services implements the core business logic behind the driving
// ports: document ingestion, keyword retrieval, and grounded answering.
package services
