package main

import (
	"flag"
	"log"

	"github.com/wwwwwwmw/DA-BE/pkg/config"
	"github.com/wwwwwwmw/DA-BE/pkg/database/postgresql"
	"github.com/wwwwwwmw/DA-BE/seeders"
)

func main() {
	runDicts := flag.Bool("dicts", false, "Наполнить справочники (департаменты, комнаты, метки)")
	runAdmin := flag.Bool("admin", false, "Создать администратора (ADMIN_EMAIL / ADMIN_PASSWORD)")
	runAll := flag.Bool("all", false, "Запустить все сидеры")

	flag.Parse()

	if !*runDicts && !*runAdmin && !*runAll {
		log.Println("Не выбран ни один сидер.")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if *runAll || *runDicts {
		seeders.SeedDictionaries(db)
	}
	if *runAll || *runAdmin {
		seeders.SeedAdmin(db)
	}

	log.Println("Готово.")
}
