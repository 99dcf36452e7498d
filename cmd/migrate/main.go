package main

import (
	"crypto/sha1"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/dsn"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/dto"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/repository"
)

func hashPassword(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func main() {
	seed := flag.Bool("seed", false, "заполнить БД справочниками и демо-данными")
	flag.Parse()

	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	// NewWithDB выполняет AutoMigrate всех таблиц
	repo, err := repository.NewWithDB(db)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migration completed successfully")

	if *seed {
		if err := seedData(repo); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Database seeding completed successfully")
	}
}

// Справочники и демо-данные. У каждой демо-НКО свой создатель:
// одна НКО на аккаунт действует и для демо-данных
func seedData(repo *repository.Repository) error {
	cities := []ds.City{
		{Name: "Москва", Region: "Московская область", Latitude: 55.7558, Longitude: 37.6173},
		{Name: "Саров", Region: "Нижегородская область", Latitude: 54.9226, Longitude: 43.3447},
		{Name: "Обнинск", Region: "Калужская область", Latitude: 55.0968, Longitude: 36.6101},
		{Name: "Димитровград", Region: "Ульяновская область", Latitude: 54.2138, Longitude: 49.6183},
		{Name: "Железногорск", Region: "Красноярский край", Latitude: 56.2527, Longitude: 93.5323},
	}
	for _, city := range cities {
		if _, err := repo.CreateCity(city.Name, city.Region, city.Latitude, city.Longitude); err != nil {
			return err
		}
	}

	categories := map[string]string{
		"Социальные":      "#0055a5",
		"Экологические":   "#2e8b57",
		"Культурные":      "#b8860b",
		"Образовательные": "#6a5acd",
		"Медицинские":     "#c23b22",
	}
	categoryIDs := map[string]uint{}
	for name, color := range categories {
		category, err := repo.CreateCategory(name, color)
		if err != nil {
			return err
		}
		categoryIDs[name] = category.ID
	}

	// Модератор создаётся по тому же контракту, что и обычная регистрация
	moderator := dto.RegisterRequest{
		Login:    "moderator",
		Email:    "moderator@example.com",
		Password: "moderator123",
	}
	moderatorUser, err := repo.CreateUser(moderator.Login, hashPassword(moderator.Password), moderator.Email, true)
	if err != nil {
		return err
	}
	if _, err := repo.CreateProfile(moderatorUser.ID); err != nil {
		return err
	}

	allCities, err := repo.GetAllCities()
	if err != nil {
		return err
	}

	samples := []struct {
		login    string
		category string
		nko      repository.NKOInput
	}{
		{
			login:    "demo1",
			category: "Социальные",
			nko: repository.NKOInput{
				Name:        "Центр помощи детям «Надежда»",
				Description: "Помощь детям из малообеспеченных семей, досуг и образовательные программы.",
				Address:     "ул. Центральная, 15",
				Phone:       "+7 (495) 123-45-67",
				Website:     "https://childhelp.example.com",
				VKLink:      "https://vk.com/childhelp",
			},
		},
		{
			login:    "demo2",
			category: "Экологические",
			nko: repository.NKOInput{
				Name:        "Экологический патруль",
				Description: "Охрана окружающей среды, субботники и экологические акции.",
				Address:     "ул. Зелёная, 25",
				Phone:       "+7 (495) 234-56-78",
				Website:     "https://ecopatrol.example.com",
				VKLink:      "https://vk.com/ecopatrol",
			},
		},
		{
			login:    "demo3",
			category: "Культурные",
			nko: repository.NKOInput{
				Name:        "Культурный центр «Искусство»",
				Description: "Выставки, концерты и мастер-классы для всех желающих.",
				Address:     "пр. Культуры, 10",
				Phone:       "+7 (495) 345-67-89",
				Website:     "https://artcenter.example.com",
				VKLink:      "https://vk.com/artcenter",
			},
		},
		{
			login:    "demo4",
			category: "Образовательные",
			nko: repository.NKOInput{
				Name:        "Образовательный центр «Знание»",
				Description: "Бесплатные курсы и репетиторство для школьников и студентов.",
				Address:     "ул. Учебная, 5",
				Phone:       "+7 (495) 456-78-90",
				Website:     "https://knowledge.example.com",
				VKLink:      "https://vk.com/knowledge",
			},
		},
		{
			login:    "demo5",
			category: "Медицинские",
			nko: repository.NKOInput{
				Name:        "Медицинская помощь «Здоровье»",
				Description: "Бесплатные медицинские консультации и помощь нуждающимся.",
				Address:     "ул. Медицинская, 20",
				Phone:       "+7 (495) 567-89-01",
				Website:     "https://health.example.com",
				VKLink:      "https://vk.com/health",
			},
		},
	}

	for i, sample := range samples {
		account := dto.RegisterRequest{
			Login:    sample.login,
			Email:    fmt.Sprintf("%s@example.com", sample.login),
			Password: "demo123456",
		}
		user, err := repo.CreateUser(account.Login, hashPassword(account.Password), account.Email, false)
		if err != nil {
			return err
		}
		if _, err := repo.CreateProfile(user.ID); err != nil {
			return err
		}

		city := allCities[i%len(allCities)]
		in := sample.nko
		in.CategoryID = categoryIDs[sample.category]
		in.CityID = city.ID

		// небольшое смещение от центра города, чтобы маркеры не слипались
		lat := city.Latitude + float64(i)*0.01 - 0.02
		lon := city.Longitude + float64(i)*0.01 - 0.02
		in.Latitude = &lat
		in.Longitude = &lon

		nko, err := repo.CreateNKO(user.ID, in)
		if err != nil {
			return err
		}
		if _, err := repo.SetNKOApproval(nko.ID, true); err != nil {
			return err
		}
	}

	return nil
}
