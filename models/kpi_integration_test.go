package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/models"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
)

// Usage (requires Docker): INTEGRATION_TESTS=1 go test ./models -run Integration -v

func setupIntegration(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "pilotage_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	return context.Background()
}

func mustCreateKPI(t *testing.T, ctx context.Context, nom string, valeur, objectif, warning, critique float64, day time.Time, cat models.KPICategory) *models.KPI {
	t.Helper()
	db := config.GetDB()
	kpi := models.KPI{
		Nom:            nom,
		ValeurActuelle: valeur,
		Objectif:       objectif,
		Date:           day,
		Categorie:      cat,
		SeuilWarning:   warning,
		SeuilCritique:  critique,
	}
	if err := db.WithContext(ctx).Create(&kpi).Error; err != nil {
		t.Fatalf("create KPI %q: %v", nom, err)
	}
	return &kpi
}

// The database predicate behind the alert list must agree record-by-record
// with the in-process classifier.
func TestCriticalKPIsIntegration(t *testing.T) {
	ctx := setupIntegration(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mustCreateKPI(t, ctx, "Revenus", 72, 90, 9, 18, base, models.KPICategoryFinancier)               // critique
	mustCreateKPI(t, ctx, "Revenus", 85, 90, 9, 18, base.AddDate(0, 0, 1), models.KPICategoryFinancier) // normal
	mustCreateKPI(t, ctx, "Incidents", 12, 2, 1, 5, base, models.KPICategoryAutre)                   // critique
	mustCreateKPI(t, ctx, "Incidents", 3, 2, 1, 5, base.AddDate(0, 0, 2), models.KPICategoryAutre)   // warning
	mustCreateKPI(t, ctx, "Satisfaction client", 100, 100, 0, 0, base, models.KPICategoryAutre)      // critique (zero thresholds)

	all, err := models.SearchKPIs(ctx, models.KPIFilter{})
	if err != nil {
		t.Fatalf("SearchKPIs: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 KPIs; got %d", len(all))
	}

	wantCritical := map[int]bool{}
	for _, k := range all {
		if models.ClassifyStatus(k.ValeurActuelle, k.Objectif, k.SeuilWarning, k.SeuilCritique) == models.KPIStatusCritique {
			wantCritical[k.ID] = true
		}
	}

	critical, err := models.CriticalKPIs(ctx, models.KPIFilter{})
	if err != nil {
		t.Fatalf("CriticalKPIs: %v", err)
	}
	if len(critical) != len(wantCritical) {
		t.Fatalf("expected %d critical KPIs; got %d", len(wantCritical), len(critical))
	}
	for _, k := range critical {
		if !wantCritical[k.ID] {
			t.Fatalf("KPI %d (%s) returned as critical but classifier disagrees", k.ID, k.Nom)
		}
		if k.Statut != models.KPIStatusCritique {
			t.Fatalf("KPI %d loaded without critique statut: %q", k.ID, k.Statut)
		}
	}

	// Filters compose conjunctively and malformed dates are ignored.
	filtered, err := models.SearchKPIs(ctx, models.KPIFilter{
		Categorie: "financier",
		DateDebut: "2026-08-01",
		DateFin:   "garbage",
	})
	if err != nil {
		t.Fatalf("SearchKPIs(filtered): %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 financier KPIs; got %d", len(filtered))
	}
	// Newest first, names tie-broken ascending.
	if !filtered[0].Date.After(filtered[1].Date) {
		t.Fatalf("expected date DESC ordering; got %v then %v", filtered[0].Date, filtered[1].Date)
	}
}

func TestAnalyseFlowIntegration(t *testing.T) {
	ctx := setupIntegration(t)

	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: "analyste1",
		Password: "secret123",
		Role:     models.UserRoleAnalyste,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	info, err := models.Login(ctx, "analyste1", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if info.Token == "" || info.Role != models.UserRoleAnalyste {
		t.Fatalf("unexpected login info: %+v", info)
	}

	ctx = utils.SetTokenInContext(ctx, info.Token)
	ctx = utils.SetUsernameInContext(ctx, user.Username)
	ctx = utils.SetUserIdInContext(ctx, user.ID)
	ctx = utils.SetUserNameInContext(ctx, user.Username)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	kpi := mustCreateKPI(t, ctx, "Revenus", 72, 90, 9, 18, base, models.KPICategoryFinancier)
	mustCreateKPI(t, ctx, "Revenus", 85, 90, 9, 18, base.AddDate(0, 0, 1), models.KPICategoryFinancier)

	commentaire, err := models.CreateCommentaire(ctx, kpi.ID, &models.NewCommentaire{
		Contenu:   "Écart critique à surveiller",
		IsInsight: true,
	})
	if err != nil {
		t.Fatalf("CreateCommentaire: %v", err)
	}
	if commentaire.UserName != "analyste1" {
		t.Fatalf("comment not stamped with session user: %q", commentaire.UserName)
	}

	analyse, err := models.CreateAnalyse(ctx, &models.NewAnalyse{
		Titre:     "Suivi des revenus",
		ChartType: models.ChartKindLine,
		KpiNames:  []string{"Revenus"},
		DateDebut: "2026-08-01",
		DateFin:   "2026-08-31",
	})
	if err != nil {
		t.Fatalf("CreateAnalyse: %v", err)
	}

	kpis, err := models.AnalyseKPIs(ctx, analyse)
	if err != nil {
		t.Fatalf("AnalyseKPIs: %v", err)
	}
	if len(kpis) != 2 {
		t.Fatalf("expected 2 KPI rows in analysis window; got %d", len(kpis))
	}
	// Chart flows need ascending dates.
	if kpis[0].Date.After(kpis[1].Date) {
		t.Fatalf("expected date ASC ordering for chart data")
	}

	spec := models.BuildChartSpec(analyse.Titre, analyse.ChartType, analyse.Filter(ctx).Names, kpis)
	if len(spec.Series) != 1 || len(spec.Series[0].Points) != 2 {
		t.Fatalf("unexpected chart spec: %+v", spec)
	}

	// Unpublished analyses stay invisible to other roles.
	if _, err := models.GetAnalyse(ctx, analyse.ID, models.UserRoleMetier, user.ID+1); err == nil {
		t.Fatalf("expected unpublished analysis to be hidden from other users")
	}

	if _, err := models.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("pilotage-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("pilotage-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=pilotage_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
