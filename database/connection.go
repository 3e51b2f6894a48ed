package database

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB es la instancia global del pool de conexiones
var DB *pgxpool.Pool

// tamanoPool lee un tamaño de pool desde el entorno, con un valor por
// defecto cuando la variable falta o no es un entero positivo
func tamanoPool(variable string, porDefecto int32) int32 {
	if valor := os.Getenv(variable); valor != "" {
		if n, err := strconv.Atoi(valor); err == nil && n > 0 {
			return int32(n)
		}
		log.Printf("Valor inválido para %s: %q, usando %d", variable, valor, porDefecto)
	}
	return porDefecto
}

// ConnectDB establece la conexión con la base de datos usando un pool. El
// tamaño del pool se ajusta con DB_MAX_CONNS y DB_MIN_CONNS.
func ConnectDB() {
	config, err := pgxpool.ParseConfig(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Error al parsear la URL de la base de datos: %v", err)
	}
	config.MaxConns = tamanoPool("DB_MAX_CONNS", 30)
	config.MinConns = tamanoPool("DB_MIN_CONNS", 5)
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	DB, err = pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalf("Error al crear el pool de conexiones: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var version string
	err = DB.QueryRow(ctx, "SELECT version()").Scan(&version)
	if err != nil {
		log.Fatalf("Error al probar la conexión: %v", err)
	}

	log.Println("Conectado exitosamente a la base de datos:", version)
}

// CloseDB cierra el pool de conexiones
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Println("Pool de conexiones cerrado")
	}
}

// GetDB retorna la instancia del pool de conexiones
func GetDB() *pgxpool.Pool {
	return DB
}
