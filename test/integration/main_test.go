//go:build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var sharedDriver neo4j.DriverWithContext

const neo4jDatabase = "neo4j"

func TestMain(m *testing.M) {
	ctx := context.Background()

	ctr, boltURI, err := startNeo4jContainer(ctx)
	if err != nil {
		log.Fatalf("failed to start neo4j container: %v", err)
	}

	drv, err := neo4j.NewDriverWithContext(boltURI, neo4j.BasicAuth("neo4j", "password", ""))
	if err != nil {
		_ = ctr.Terminate(ctx)
		log.Fatalf("failed to create driver: %v", err)
	}
	if err := waitForConnectivity(ctx, drv); err != nil {
		_ = drv.Close(ctx)
		_ = ctr.Terminate(ctx)
		log.Fatalf("failed to verify connectivity: %v", err)
	}
	if err := seedGraph(ctx, drv); err != nil {
		_ = drv.Close(ctx)
		_ = ctr.Terminate(ctx)
		log.Fatalf("failed to seed graph: %v", err)
	}

	sharedDriver = drv

	code := m.Run()

	if err := drv.Close(context.Background()); err != nil {
		log.Printf("warning: failed to close driver: %v", err)
	}
	if err := ctr.Terminate(context.Background()); err != nil {
		log.Printf("warning: failed to terminate container: %v", err)
	}
	os.Exit(code)
}

func startNeo4jContainer(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "neo4j:5.24.2-community",
		ExposedPorts: []string{"7687/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": "neo4j/password",
		},
		WaitingFor: wait.ForListeningPort("7687/tcp").WithStartupTimeout(119 * time.Second),
	}
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, "", err
	}
	port, err := ctr.MappedPort(ctx, "7687/tcp")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, "", err
	}
	return ctr, fmt.Sprintf("bolt://%s:%s", host, port.Port()), nil
}

// seedGraph creates the fixed scenario graph the scenario tests compile
// and execute queries against: two Agreements, two Organizations, and the
// HAS_PARTNER edges connecting them.
func seedGraph(ctx context.Context, drv neo4j.DriverWithContext) error {
	session := drv.NewSession(ctx, neo4j.SessionConfig{DatabaseName: neo4jDatabase, AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		CREATE (ag1:Agreement {id: 'AG-1', name: 'AG-1', status: 'RUNNING_TEST', version: 1, isDeleted: false})
		CREATE (ag2:Agreement {id: 'AG-2', name: 'AG-2', status: 'RUNNING_TEST', version: 1, isDeleted: false})
		CREATE (org1:Organization {id: 'ORG-1', name: 'Lads'})
		CREATE (org2:Organization {id: 'ORG-2', name: 'Devs'})
		CREATE (ag1)-[:HAS_PARTNER {role: 'BUYER_TEST'}]->(org1)
		CREATE (ag1)-[:HAS_PARTNER {role: 'SELLER_TEST', isApprovalRequired: true}]->(org2)
		CREATE (ag2)-[:HAS_PARTNER {role: 'BUYER_TEST'}]->(org2)
		CREATE (ag2)-[:HAS_PARTNER {role: 'SELLER_TEST'}]->(org1)
	`, nil)
	return err
}

func waitForConnectivity(ctx context.Context, drv neo4j.DriverWithContext) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	backoff := 100 * time.Millisecond
	const maxBackoff = 2 * time.Second
	var lastErr error
	for {
		if err := drv.VerifyConnectivity(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if ctx.Err() != nil {
			return fmt.Errorf("neo4j connectivity not ready: %w", lastErr)
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
