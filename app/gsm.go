package app

import (
	"context"
	"fmt"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	log "github.com/sirupsen/logrus"
)

const gsmAccessTimeout = 10 * time.Second

// secretRef fills target from the named secret when target is still empty.
type secretRef struct {
	label    string
	name     string
	target   *string
	required bool
}

func secretVersionName(projectID string, secret string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secret)
}

func accessSecretVersion(ctx context.Context, client *secretmanager.Client, secret string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, gsmAccessTimeout)
	defer cancel()

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretVersionName(Config.GoogleSecretManager.ProjectID, secret),
	})
	if err != nil {
		return "", err
	}
	return string(result.Payload.Data), nil
}

func secretRefs() []secretRef {
	refs := []secretRef{
		{label: "mongo uri", name: Config.GoogleSecretManager.MongoSecretName, target: &Config.MongoDB.URI},
		{label: "oracle api key", name: Config.GoogleSecretManager.OracleAPIKeySecret, target: &Config.Oracle.APIKey, required: true},
	}
	for i := range Config.Chains {
		refs = append(refs, secretRef{
			label:  Config.Chains[i].Chain + " blockfrost project id",
			name:   Config.Chains[i].BlockfrostSecret,
			target: &Config.Chains[i].BlockfrostProjectID,
		})
	}
	return refs
}

func readKeysFromGSM() {
	if !Config.GoogleSecretManager.Enabled {
		log.Debug("[GSM] Google Secret Manager is disabled")
		return
	}

	if Config.GoogleSecretManager.ProjectID == "" {
		log.Fatal("[GSM] ProjectID is required")
	}

	ctx := context.Background()
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		log.Fatal("[GSM] Error creating secret manager client: ", err)
	}
	defer client.Close()

	for _, ref := range secretRefs() {
		if *ref.target != "" {
			continue
		}
		if ref.name == "" {
			if ref.required {
				log.Fatal("[GSM] Secret name for ", ref.label, " is required")
			}
			continue
		}

		value, err := accessSecretVersion(ctx, client, ref.name)
		if err != nil {
			log.Fatal("[GSM] Error reading ", ref.label, ": ", err)
		}
		*ref.target = value
		log.Info("[GSM] Read ", ref.label)
	}
}
