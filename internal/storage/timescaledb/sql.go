package timescaledb

// Schema DDL, applied at startup. The SCADA table becomes a hypertable when
// the TimescaleDB extension is available.

const createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS timescaledb;`

const createTableSQL = `
CREATE TABLE IF NOT EXISTS scada (
	time        TIMESTAMPTZ      NOT NULL,
	stationname TEXT             NOT NULL,
	windspeed   DOUBLE PRECISION,
	windspeedsd DOUBLE PRECISION,
	winddir     DOUBLE PRECISION,
	power       DOUBLE PRECISION,
	temperature DOUBLE PRECISION,
	pressure    DOUBLE PRECISION
);`

const createHypertableSQL = `
SELECT create_hypertable('scada', 'time', if_not_exists => TRUE);`

const createAnalysisRunsTableSQL = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id           UUID PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL,
	stationname  TEXT        NOT NULL,
	curve_kind   TEXT        NOT NULL,
	curve        BYTEA       NOT NULL,
	r_squared    DOUBLE PRECISION,
	rmse         DOUBLE PRECISION,
	sample_count INTEGER
);`

const createScadaIndexSQL = `
CREATE INDEX IF NOT EXISTS scada_station_time_idx ON scada (stationname, time DESC);`
