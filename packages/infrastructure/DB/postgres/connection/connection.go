package connection

import (
	"context"
	"errors"
	"flashauction/packages/common/config"
	"flashauction/packages/common/logger"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var connectionLogger = logger.NewSource("CONNECTION", logger.Default)

var ErrAlreadyConnected = errors.New("connection already established")
var ErrNotConnected = errors.New("connection not established")

// Tables that must exist after connection, unless post-connection is skipped.
var requiredTables = []string{"profiles", "p2p_listings", "p2p_auctions", "p2p_bids"}

type Manager struct {
	cfg     *config.Manager
	secrets *config.Secrets

	pool        *pgxpool.Pool
	isConnected bool
}

func New(cfg *config.Manager) *Manager {
	return &Manager{
		cfg:     cfg,
		secrets: cfg.Secrets(),
	}
}

func connectionURI(s *config.Secrets) string {
	uri := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(s.DatabaseUser, s.DatabasePassword),
		Host:   net.JoinHostPort(s.DatabaseHost, s.DatabasePort),
		Path:   "/" + s.DatabaseName,
	}
	return uri.String()
}

// Creates pool config from secrets and current config, doesn't require connection.
func (m *Manager) NewConfig() (*pgxpool.Config, error) {
	connectionLogger.Trace("Creating connection config...", nil)

	poolConfig, err := pgxpool.ParseConfig(connectionURI(m.secrets))
	if err != nil {
		return nil, errors.New("failed to parse connection URI: " + err.Error())
	}

	dbConfig := m.cfg.Current().DB()

	poolConfig.MinConns = dbConfig.MinConns
	poolConfig.MaxConns = dbConfig.MaxConns
	poolConfig.MaxConnIdleTime = time.Minute * 5
	poolConfig.MaxConnLifetime = time.Minute * 60

	connectionLogger.Trace("Creating connection config: OK", nil)

	return poolConfig, nil
}

func (m *Manager) IsConnected() bool {
	return m.isConnected
}

func (m *Manager) Connect(ctx context.Context) error {
	if m.isConnected {
		return ErrAlreadyConnected
	}

	poolConfig, err := m.NewConfig()
	if err != nil {
		return err
	}

	connectionLogger.Info("Creating connection pool...", nil)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return errors.New("failed to create connection pool: " + err.Error())
	}

	connectionLogger.Info("Creating connection pool: OK", nil)

	m.pool = pool

	connectionLogger.Info("Ping connection...", nil)

	if err := m.Ping(ctx); err != nil {
		pool.Close()
		return errors.New("failed to ping DB: " + err.Error())
	}

	connectionLogger.Info("Ping connection: OK", nil)

	if err := m.postConnection(ctx); err != nil {
		pool.Close()
		return errors.New("post-connection failed: " + err.Error())
	}

	m.isConnected = true

	return nil
}

func (m *Manager) Ping(ctx context.Context) error {
	if m.pool == nil {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err := m.pool.Ping(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.New("ping timeout")
		}
		return err
	}

	return nil
}

func (m *Manager) Disconnect() error {
	if !m.isConnected {
		return ErrNotConnected
	}

	connectionLogger.Info("Closing connection pool...", nil)

	done := make(chan struct{})

	go func() {
		m.pool.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second * 10):
		return errors.New("timeout exceeded")
	}

	connectionLogger.Info("Closing connection pool: OK", nil)

	m.isConnected = false

	return nil
}

func (m *Manager) Pool() *pgxpool.Pool {
	return m.pool
}

func (m *Manager) postConnection(ctx context.Context) error {
	if m.cfg.Current().DB().SkipPostConnection {
		connectionLogger.Warning("Post-connection skipped", nil)
		return nil
	}

	connectionLogger.Info("Post-connection...", nil)

	connectionLogger.Info("Verifying that all tables exists...", nil)

	if err := m.checkTables(ctx); err != nil {
		return err
	}

	connectionLogger.Info("Verifying that all tables exists: OK", nil)

	connectionLogger.Info("Post-connection: OK", nil)

	return nil
}

func (m *Manager) checkTables(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	sql := `SELECT t.table_name, EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = t.table_name
	) AS table_exists FROM unnest($1::text[]) AS t(table_name);`

	rows, err := m.pool.Query(ctx, sql, requiredTables)
	if err != nil {
		return err
	}

	type table struct {
		name   string
		exists bool
	}

	tables, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*table, error) {
		table := new(table)

		if err := row.Scan(&table.name, &table.exists); err != nil {
			return nil, err
		}

		return table, nil
	})
	if err != nil {
		return err
	}

	nonExistingTables := []string{}
	for _, table := range tables {
		if !table.exists {
			nonExistingTables = append(nonExistingTables, table.name)
		}
	}

	if len(nonExistingTables) != 0 {
		return errors.New("following table(-s) does not exists: " + strings.Join(nonExistingTables, ", "))
	}

	return nil
}
